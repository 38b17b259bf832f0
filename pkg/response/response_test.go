package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return e.NewContext(req, rec), rec
}

func TestOkWithMessage_EnvelopeShape(t *testing.T) {
	c, rec := newTestContext()

	if err := OkWithMessage(c, "Event ignored", nil); err != nil {
		t.Fatalf("OkWithMessage returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !body.Success {
		t.Errorf("expected Success=true")
	}
	if body.Message != "Event ignored" {
		t.Errorf("expected message preserved, got %q", body.Message)
	}
}

func TestPaginated_ComputesTotalPages(t *testing.T) {
	cases := []struct {
		name       string
		totalCount int64
		pageSize   int
		wantPages  int
	}{
		{"exact multiple", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty result", 0, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext()

			if err := Paginated(c, []int{1}, 1, tc.pageSize, tc.totalCount); err != nil {
				t.Fatalf("Paginated returned error: %v", err)
			}

			var body PaginatedResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if !body.Success {
				t.Errorf("expected Success=true")
			}
			if body.TotalCount != tc.totalCount {
				t.Errorf("expected TotalCount=%d, got %d", tc.totalCount, body.TotalCount)
			}
			if body.TotalPages != tc.wantPages {
				t.Errorf("expected TotalPages=%d, got %d", tc.wantPages, body.TotalPages)
			}
		})
	}
}

func TestBadRequest_CarriesErrorText(t *testing.T) {
	c, rec := newTestContext()

	if err := BadRequest(c, echo.ErrBadRequest); err != nil {
		t.Fatalf("BadRequest returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Success {
		t.Errorf("expected Success=false")
	}
	if body.Error == "" {
		t.Errorf("expected Error to be non-empty")
	}
}
