// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, binds them through the validation package,
// calls the student service and shapes the JSON envelope of the
// response.
package handler
