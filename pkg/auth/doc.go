// Package auth provides credential verification and access token handling
// for the DocMan API.
//
// # Overview
//
// This package wraps the two authentication primitives the rest of the system
// treats as black boxes: one-way password hashing (bcrypt) and signed access
// tokens (HS256 JWTs). It also defines the Identity type that middleware
// attaches to every authenticated request.
//
// # Passwords
//
//	hash, err := auth.HashPassword("s3cret")
//	ok := auth.CheckPassword("s3cret", hash)
//
// # Tokens
//
// Tokens carry {userId, role} and expire after 24 hours:
//
//	issuer := auth.NewTokenIssuer(cfg.TokenSecret, 0)
//	token, err := issuer.Issue(auth.Identity{UserID: 42, RoleID: auth.RoleStandard})
//	identity, err := issuer.Verify(token)
//
// Verify only proves signature validity and expiry. The authentication
// middleware additionally re-validates that the encoded userId still exists,
// so tokens for deleted accounts are rejected.
//
// # Roles
//
// Exactly two roles are seeded: RoleAdmin (1) and RoleStandard (2). RoleAdmin
// is privileged for every authorization decision; see pkg/policy.
package auth
