// Package auth provides API key authentication for the odrlcheck API.
//
// Keys are configured under server.auth. A request is accepted when the
// configured header carries an enabled key, optionally prefixed with the
// scheme:
//
//	Authorization: Bearer <key>
//
// The name of the matched key is stored in the request context and can be
// read with KeyName. Rate limiting uses it to identify clients.
package auth
