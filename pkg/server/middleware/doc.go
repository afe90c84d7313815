// Package middleware provides the HTTP middleware chain of the odrlcheck API.
//
// The server applies them outermost first:
//
//	recovery -> logging -> request ID -> tracing -> max body -> metrics -> mux
//
// Recovery is outermost so a panic anywhere, including in logging, still
// yields a response.
package middleware
