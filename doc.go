// Package auth implements the account and authentication backend: user
// registration, credential verification, JWT issuance and validation, and
// permission based guards for admin-only and self-or-admin operations.
//
// Identity resolution:
//   - Login verifies an email + password pair against the Users repository
//     and mints a signed, short lived token carrying email, username, and
//     permission tags.
//   - IdentityFromToken turns a bearer token back into a live identity. The
//     user record is re-read on every resolution so an account disabled after
//     issuance loses access on its next request, even while the token itself
//     is still cryptographically valid.
//
// Guards:
//   - Guards are plain predicates evaluated in order (Authenticated first,
//     then Admin or SelfOrAdmin). The first denial wins and every denial is
//     reported to callers with the same generic message; the specific reason
//     is only ever logged.
//
// Tokens are stateless. There is no server side session or revocation list;
// revocation is achieved by disabling the account or letting the configured
// lifetime run out.
package auth
