// Package httpserver serves the project's development site together with
// the live-reload endpoints a browser polls.
//
// Routes:
//
//	GET /health                     liveness probe (JSON)
//	GET /metrics                    Prometheus exposition
//	GET /api/devloop/version        live-reload version (dev only)
//	GET /api/devloop/status         status message (dev only)
//	GET /api/devloop/livereload.js  polling script (dev only)
//	GET /                           static files from site.root
//
// There are no mutation endpoints; the server changes state only through
// its request queue.
package httpserver
