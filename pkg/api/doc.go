// Package api implements the DocMan HTTP API: account registration and
// login, user administration, document CRUD with ownership- and role-based
// access control, and substring search, all under /api/v1.
//
// Response conventions follow the service's long-standing contract: every
// error carries a {"message": ...} body, structural validation failures a
// {"errors": ...} body (a bare string for one failure, an array for
// several), and listings embed a pagination descriptor next to the rows.
package api
