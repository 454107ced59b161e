// Package storage defines the persistence interfaces the DocMan API is built
// against, plus the sentinel errors controllers translate into response
// statuses (ErrNotFound -> 404, ErrDuplicateEmail -> 409).
//
// The single production implementation lives in storage/postgres. Handlers
// and middleware accept the interfaces so tests can substitute sqlmock-backed
// or fake stores.
package storage
