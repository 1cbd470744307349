package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		key    string
		header string
		status int
	}{
		{"disabled", "", "", http.StatusOK},
		{"valid", "secret", "secret", http.StatusOK},
		{"missing", "secret", "", http.StatusUnauthorized},
		{"wrong", "secret", "nope", http.StatusForbidden},
	}

	for _, tc := range cases {
		r := gin.New()
		r.Use(APIKeyAuth(tc.key))
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		if tc.header != "" {
			req.Header.Set("X-API-Key", tc.header)
		}
		r.ServeHTTP(w, req)

		if w.Code != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.name, tc.status, w.Code)
		}
	}
}
