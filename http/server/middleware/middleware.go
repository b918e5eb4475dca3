// Package middleware provides the Fiber middleware chain of the catalog HTTP
// server.
//
// Each middleware declares a Priority; higher values run earlier:
//
//   - Recovery (1000): catches panics in the chain
//   - Tracing (900): creates a server span per request
//   - Timeout (800): bounds the request context
//   - MetaInject (700): injects request metadata into the context
//   - Logger (500): logs request and response details
//   - ErrorHandler (400): converts errors to standardized responses
//   - Auth (300): resolves the caller's dataset access map
package middleware
