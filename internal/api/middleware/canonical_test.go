package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/policy"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"/Finances":       "/finances",
		"/reports/AbC":    "/reports/AbC",
		"/REPORTS/AbC":    "/reports/AbC",
		"/LOGIN":          "/login",
		"/Unknown":        "/Unknown",
		"/api/v1/Session": "/api/v1/Session",
	}

	mw := CanonicalPath(policy.DefaultTable())
	for in, want := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, in, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		var got string
		handler := mw(func(c echo.Context) error {
			got = c.Request().URL.Path
			return nil
		})
		if err := handler(c); err != nil {
			t.Fatalf("%s: handler error: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: got %q, want %q", in, got, want)
		}
	}
}
