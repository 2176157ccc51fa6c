package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/grandresort/crm/internal/domain/models"
	"github.com/grandresort/crm/internal/repository/memory"
	"github.com/grandresort/crm/internal/service/inquiry"
	"github.com/grandresort/crm/internal/service/pricing"
	"github.com/grandresort/crm/internal/service/quotes"
)

func newQuoteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewQuoteHandler(
		inquiry.NewParser(nil),
		pricing.NewCalculator(nil),
		quotes.NewRenderer(),
		memory.NewTariffStore(memory.DefaultCatalog()...),
		nil,
	)

	r := gin.New()
	r.POST("/api/v1/inquiries/parse", h.ParseInquiry)
	r.POST("/api/v1/quotes/compute", h.ComputeQuote)
	r.POST("/api/v1/quotes/message", h.RenderQuote)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseInquiryEndpoint(t *testing.T) {
	r := newQuoteRouter()

	body := `{"text":"Need 2 rooms for 4 adults from 12/12 to 15/12","referenceDate":"2024-06-01"}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/inquiries/parse", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var parsed models.ParsedInquiry
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if parsed.CheckinDate != "2024-12-12" || parsed.CheckoutDate != "2024-12-15" {
		t.Errorf("dates = %s / %s", parsed.CheckinDate, parsed.CheckoutDate)
	}
	if len(parsed.Rooms) != 2 {
		t.Errorf("rooms = %d, want 2", len(parsed.Rooms))
	}
}

func TestParseInquiryRejectsEmptyBody(t *testing.T) {
	r := newQuoteRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/inquiries/parse", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestComputeQuoteEndpoint(t *testing.T) {
	r := newQuoteRouter()

	body := `{
		"clientName": "Rahul",
		"mobile": "9876543210",
		"checkinDate": "2024-12-10",
		"checkoutDate": "2024-12-12",
		"rooms": [{"type": "Standard", "adults": 2}]
	}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/quotes/compute", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var totals models.QuoteTotals
	if err := json.Unmarshal(w.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if totals.Subtotal != 9000 {
		t.Errorf("subtotal = %v, want 9000", totals.Subtotal)
	}
	if totals.FinalTotal != 10080 {
		t.Errorf("final total = %v, want 10080", totals.FinalTotal)
	}
}

func TestComputeQuoteInvalidDateRange(t *testing.T) {
	r := newQuoteRouter()

	body := `{
		"checkinDate": "2024-12-12",
		"checkoutDate": "2024-12-10",
		"rooms": [{"type": "Standard", "adults": 2}]
	}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/quotes/compute", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestComputeQuoteUnknownRoomType(t *testing.T) {
	r := newQuoteRouter()

	body := `{
		"checkinDate": "2024-12-10",
		"checkoutDate": "2024-12-12",
		"rooms": [{"type": "Penthouse", "adults": 2}]
	}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/quotes/compute", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRenderQuoteEndpoint(t *testing.T) {
	r := newQuoteRouter()

	body := `{
		"clientName": "Rahul",
		"mobile": "9876543210",
		"checkinDate": "2024-12-10",
		"checkoutDate": "2024-12-12",
		"rooms": [{"type": "Standard", "adults": 2}],
		"mealPlans": ["CP"]
	}`
	w := doJSON(t, r, http.MethodPost, "/api/v1/quotes/message", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Totals    models.QuoteTotals `json:"totals"`
		QuoteText string             `json:"quoteText"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.QuoteText, "GRAND RESORT") {
		t.Error("quote text missing header")
	}
	if !strings.Contains(resp.QuoteText, "Rahul") {
		t.Error("quote text missing guest name")
	}
	if resp.Totals.Nights != 2 {
		t.Errorf("nights = %d, want 2", resp.Totals.Nights)
	}
}

func TestRenderQuoteMissingDates(t *testing.T) {
	r := newQuoteRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/quotes/message", `{"rooms":[{"type":"Standard"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
