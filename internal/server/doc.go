// Package server provides the songbook HTTP API: routing, middleware and handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers "METHOD /path" patterns on [http.ServeMux], so one path may
// serve several methods and the mux answers 405 for the rest.
//
// # Handler Interface
//
// Endpoint groups implement [Handler] by returning their [Route] list:
//   - [SongsHandler] : GET, POST, PUT and DELETE on /api/users/songs
//   - [UsersHandler] : POST /api/auth/signup and GET /api/users/{id}
//   - [HealthHandler] : GET /health
//
// # Errors
//
// Every failure is written as {"message": ..., "code": ...}. [StatusFor] maps the shared error kinds
// to status codes: invalid requests 400, unknown users or songs 404, duplicates 409, rate limiting 429,
// an unavailable store 503 and a corrupt store 500.
//
// # Middleware
//
// [Server] applies [Recover] and [CORS] around the whole router, and [Logging], [Metrics.Middleware]
// and [RateLimit] around the API routes.
package server
