// Package types defines the operation and condition value types, keys,
// results, configuration and standard errors shared by the statement router
// and the storage backends.
//
// Operations and mutation conditions are closed sets: each interface carries
// an unexported marker method, so only the types declared here satisfy them.
package types
