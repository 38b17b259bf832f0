package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithKey(t *testing.T, configuredKey, sentKey string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	if sentKey != "" {
		req.Header.Set(APIKeyHeader, sentKey)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	if err := APIKeyAuth(configuredKey)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec
}

func TestAPIKeyAuth_ValidKeyPasses(t *testing.T) {
	rec := callWithKey(t, "secret-key", "secret-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_InvalidKeyIsRejected(t *testing.T) {
	rec := callWithKey(t, "secret-key", "wrong-key")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_MissingKeyIsRejected(t *testing.T) {
	rec := callWithKey(t, "secret-key", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAPIKeyAuth_UnconfiguredKeyIsServerError(t *testing.T) {
	rec := callWithKey(t, "", "anything")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
