// Package httputil provides the shared HTTP plumbing for the DocMan API:
// JSON response helpers shaped to the API's message/errors contract, request
// parsing with validation accumulation, and the middleware stack (request
// IDs, structured request logging, panic recovery, CORS).
//
// Error responses take one of two shapes. Structural validation failures
// return all accumulated messages at once:
//
//	{"errors": "title cannot be empty"}            // one failure
//	{"errors": ["title cannot be empty", ...]}     // several
//
// Everything else returns a single message:
//
//	{"message": "This document does not exist or has been previously deleted"}
//
// Internal failures always render the fixed GenericErrorMessage so store
// errors never leak to clients.
package httputil
