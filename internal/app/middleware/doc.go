// Package middleware holds the HTTP middleware chain of the service.
//
// Error status mapping applied by ErrorPages:
// abort-style error - its own status, reason and headers
// validation error  - 400 Bad Request with the validation message
// debuggable error  - 500 with its debug description outside release mode
// anything else     - 500 "Something went wrong."
//
// Bodies come from the first configured error page whose status range
// contains the status, or fall back to "<status>\n\n<reason>" as plain text.
package middleware
