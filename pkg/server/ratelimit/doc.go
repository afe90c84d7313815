// Package ratelimit throttles API requests per client.
//
// Every client gets a token bucket refilled at server.rate_limit
// requests_per_second with room for burst requests, and optionally a cap on
// in-flight requests. Clients are identified by the name of their API key
// (see package auth) or, without authentication, by remote IP.
//
// Rejected requests receive 429 with a Retry-After header.
package ratelimit
