// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP layer is an *HTTPError carrying a
// stable machine code, a French human-readable message and, when the store
// reported one, the raw detail. The global error handler turns it into the
// response envelope.
package errs
