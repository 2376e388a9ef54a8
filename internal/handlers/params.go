package handlers

import (
	"net/http"
	"strconv"

	"billingBack/internal/billing"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// parseID reads a positive numeric path parameter.
func parseID(r *http.Request, name string) (int64, error) {
	raw := getParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, billing.Invalid("invalid %s", name)
	}
	return id, nil
}
