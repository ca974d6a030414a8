// Package web exposes library removal over HTTP with gin.
//
// GET /remove_library takes the same selectors and switches as the
// command line (id, title, version, run, force, help) and answers with the
// workflow messages as JSON. The HTTP status reflects why a removal failed.
package web
