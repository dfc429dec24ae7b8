// Package mongoerr specifically handles document store driver errors.
//
// It reads the write errors and duplicate key reports of the MongoDB
// driver and converts them into client-facing errors (e.g. turning a
// duplicate key on "email" into a DUPLICATE_EMAIL bad request).
package mongoerr
