//go:build !go1.22

package handlers

import "net/http"

// Request.PathValue does not exist before Go 1.22; there is no path
// parameter storage on the request to fall back to.
func pathValue(_ *http.Request, _ string) string {
	return ""
}
