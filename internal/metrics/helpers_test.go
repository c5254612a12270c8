package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newGetRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, path, nil)
}
