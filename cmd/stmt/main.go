// Command stmt routes storage operations to SQL statement handlers and runs
// them against a local SQLite database.
package main

import "github.com/mesh-intelligence/statements/internal/cli"

func main() {
	cli.Execute()
}
