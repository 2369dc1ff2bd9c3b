// Package server exposes the question pipeline over HTTP.
//
// A single endpoint, POST /api/query, accepts {"prompt": "..."} and
// returns the answer with its attributed sources. Failures inside the
// pipeline surface as a generic 500; the detail is only logged.
package server
