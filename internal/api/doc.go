// Package api implements the HTTP handlers for the Horizons REST API.
//
// Handlers translate between the wire envelope and the domain: they decode
// and validate request bodies, resolve dual id-or-slug path references,
// invoke stores and services, and map internal errors onto the response
// taxonomy (401 unauthenticated, 403 forbidden, 404 not found, 409
// conflict). Authorization itself lives in the middleware subpackage.
package api
