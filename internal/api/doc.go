// Package api implements the HTTP surface of enpal-exporter.
//
// New(exporter) returns an http.Handler that serves:
//
//	GET /metrics   200, text/plain; version=0.0.4, one fresh scrape
//	anything else  404, text/plain, "404 not found"
//
// A failed scrape answers 500 with the error text as a plain-text body.
// Non-GET requests to /metrics get 405. Every response carries an explicit
// Content-Length. No external HTTP framework is used.
package api
