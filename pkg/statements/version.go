// Package statements holds build metadata for the module.
package statements

// Version is the release version reported by the stmt CLI.
const Version = "0.1.0"
