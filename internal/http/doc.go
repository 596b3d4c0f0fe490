// Package http provides HTTP handlers and middleware for the CleanOps API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. The token
//     is returned in the body and also surfaced via the `X-Session-Token` header
//     and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted from
//     the Authorization header or session cookie. Returns 204 No Content and
//     clears the cookie.
//   - GET /staff, POST /staff, GET /staff/{id}, PUT /staff/{id},
//     DELETE /staff/{id}: staff directory endpoints exchanging the `staffDTO`
//     payload defined in staff_handler.go. Listing is available to any
//     authenticated principal while mutations require admin privileges. DELETE
//     deactivates rather than removes, preserving assignment history.
//   - GET /staff/{id}/availability, PUT /staff/{id}/availability: weekly
//     availability endpoints exchanging the `windowDTO` payload defined in
//     availability_handler.go. GET always returns a full seven-day week, with
//     defaults filled in for days never saved. Staff may edit only their own
//     week; admins may edit anyone's.
//   - GET /jobs, POST /jobs, GET /jobs/{id}, PUT /jobs/{id}: job booking
//     endpoints exchanging the `jobDTO` payload defined in job_handler.go.
//   - PUT /jobs/{id}/status: moves a job along its lifecycle. Illegal
//     transitions return 422 with a field error.
//   - PUT /jobs/{id}/assignee: sets or clears the assigned staff member.
//   - GET /candidates?date=YYYY-MM-DD&time=HH:MM: ranks every active staff
//     member against the requested slot, conflict-free candidates first.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
