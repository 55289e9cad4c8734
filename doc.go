// Package auth implements the account and session lifecycle for the storekit
// backend: registration with mailed email verification, credential login that
// issues a JWT access token alongside an opaque refresh token, and logout that
// revokes the backing session row.
//
// Session model:
//   - Each user holds at most one session row, keyed by user id. Login reuses
//     a still-valid session instead of minting a new one, and an invalidated
//     row blocks further logins until it is cleared.
//   - Access tokens are only honored while the session row they were issued
//     against is live, so Logout revokes them before their exp claim fires.
//
// HTTP surface:
//   - RouteAuthenticator owns the cookie contract (HttpOnly, SameSite=Strict)
//     and the RequireAuth / RequireRole fiber middleware.
//   - RegisterAuthRoutes mounts the JSON endpoints for register, verify-email,
//     login, logout, and the current-user probe.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter fed by Auther for register,
//     verify, login, logout, and mail-failure events. Sink errors are logged,
//     never surfaced to the caller.
package auth
