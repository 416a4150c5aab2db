// Package middleware holds the Fiber middleware shared by the local API.
//
// # Components
//
//   - Auth: Optional API key check for every request. With no key configured
//     the server stays open, which is the expected mode for a loopback-only
//     tool.
//   - RayID: Tags each request with a unique ray ID, echoed in the response
//     headers and attached to every log line the handlers emit, so one
//     request's lines can be pulled out of an interleaved log.
//
// Both are registered globally during server startup, before any feature
// routes are mounted.
package middleware
