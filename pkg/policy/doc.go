// Package policy contains the pure access-control predicates for DocMan.
//
// Every authorization decision in the API reduces to one of the functions
// here, applied to an auth.Identity and (for documents) a Resource view that
// carries the owner's resolved role. The functions are side-effect free and
// never touch the store; route guards in pkg/middleware and the controllers
// in pkg/api are responsible for resolving resources first, reporting
// not-found before forbidden so a denial never leaks whether the target
// exists.
//
// Document visibility:
//
//	public  - any authenticated caller may read
//	private - only the owner or an admin may read
//	role    - owner, admins, and callers sharing the owner's role may read
//
// Mutation is stricter than reading: updates are owner-only (admins cannot
// edit another user's content), deletion is owner-or-admin.
package policy
