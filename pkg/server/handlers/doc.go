// Package handlers implements the HTTP endpoints of the odrlcheck API.
//
// # Endpoints
//
//   - POST /v1/validate validates a policy graph and returns the report as JSON
//   - POST /v1/validate/feedback returns the same report as a Markdown feedback document
//   - GET /v1/operands lists the left operands known to the validator
//   - GET /v1/history and GET /v1/history/{id} read the validation history
//
// Request bodies for both validate endpoints have the form:
//
//	{"user_text": "...", "generated_graph": "@prefix odrl: ..."}
//
// Validation never fails at the HTTP level: a graph that does not parse is
// reported as an issue inside a 200 response. Only malformed requests are
// rejected.
//
// Errors are returned as:
//
//	{"error": {"type": "invalid_request_error", "message": "..."}}
package handlers
