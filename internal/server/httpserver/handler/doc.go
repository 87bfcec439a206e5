// Package handler implements the read-only endpoints of the dev server.
package handler
