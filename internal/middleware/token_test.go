package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateRequest(t *testing.T, token, target string, header http.Header) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := TokenGate(token)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestTokenGateDisabledWhenEmpty(t *testing.T) {
	assert.NoError(t, gateRequest(t, "", "/v1/routes", nil))
}

func TestTokenGateQueryParam(t *testing.T) {
	assert.NoError(t, gateRequest(t, "secret", "/v1/routes?t=secret", nil))
}

func TestTokenGateHeader(t *testing.T) {
	h := http.Header{}
	h.Set("X-App-Token", "secret")
	assert.NoError(t, gateRequest(t, "secret", "/v1/routes", h))
}

func TestTokenGateRejects(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"missing token", "/v1/routes"},
		{"wrong token", "/v1/routes?t=guess"},
		{"empty value", "/v1/routes?t="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gateRequest(t, "secret", tc.target, nil)
			require.Error(t, err)

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestTokenGateQueryBeatsHeader(t *testing.T) {
	// The query parameter is checked first, matching how shared links are
	// opened in a browser.
	h := http.Header{}
	h.Set("X-App-Token", "secret")
	err := gateRequest(t, "secret", "/v1/routes?t=wrong", h)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
