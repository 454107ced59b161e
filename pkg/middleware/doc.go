// Package middleware provides the HTTP middleware chain for protected
// routes: bearer-token authentication, admin and ownership route guards,
// and Redis-backed rate limiting for the credential endpoints.
package middleware
