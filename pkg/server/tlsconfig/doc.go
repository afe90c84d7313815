// Package tlsconfig builds the TLS configuration of the API server from
// server.tls.
//
// Certificates are served through a Reloader that re-reads the key pair
// when either file changes, so renewed certificates are picked up without a
// restart. Setting client_ca_file enables mutual TLS.
package tlsconfig
