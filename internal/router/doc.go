// Package router maps storage operations onto the statement handler that
// executes them.
//
// A Router holds exactly four handlers, one per statement class (select,
// insert, update, delete), and classifies each operation into one of them:
//
//	Get, Scan                     -> select
//	Put with PutIf or PutIfExists -> update
//	Put, any other condition      -> insert
//	Delete                        -> delete
//
// Routers are immutable and safe for concurrent use. They are assembled with a
// Builder, which refuses to build until all four roles are set.
package router
