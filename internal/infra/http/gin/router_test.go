package ginserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"campstation/internal/app/commands"
	"campstation/internal/app/dto"
	pricingapp "campstation/internal/app/handlers/pricing"
	"campstation/internal/app/middleware"
	"campstation/internal/app/queries"
	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/money"
	"campstation/internal/infra/obs"
	"campstation/internal/infra/storage/memory"
	"campstation/internal/infra/validation"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type testServer struct {
	router *gin.Engine
	cache  *memory.QuoteCache
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	configureGinMode("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	weekend := money.Won(70000)
	repo := memory.NewRuleRepository([]domainpricing.Rule{
		{
			ID: 1, SiteID: 3, Name: "기본", Type: domainpricing.RuleTypeBase,
			BasePrice: money.Won(50000), WeekendPrice: &weekend,
			BaseGuests: 2, MaxGuests: 4, ExtraGuestFee: money.Won(10000), Active: true,
			EarlyBird: &domainpricing.DiscountPolicy{RatePercent: 10, Threshold: 30},
		},
		{
			ID: 2, SiteID: 3, Name: "여름 성수기", Type: domainpricing.RuleTypeSeasonal,
			Season: domainpricing.SeasonPeak,
			Window: &domainpricing.DateWindow{
				Start: domainpricing.MonthDay{Month: time.July, Day: 20},
				End:   domainpricing.MonthDay{Month: time.August, Day: 20},
			},
			BasePrice: money.Won(90000), BaseGuests: 2, MaxGuests: 4, Active: true,
		},
	})
	clock := fixedClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	factory := memory.Factory{RulesRepo: repo}
	cache := memory.NewQuoteCache()

	queryBus := queries.NewInMemoryBus()
	pricingapp.RegisterQueries(queryBus,
		&pricingapp.CalculatePriceHandler{UoWFactory: factory, Clock: clock, Logger: logger},
		&pricingapp.ListSiteRulesHandler{UoWFactory: factory},
	)
	commandBus := commands.NewInMemoryBus()
	pricingapp.RegisterCommands(commandBus, &pricingapp.InvalidateSiteQuotesHandler{Cache: cache, Logger: logger})

	q := middleware.ChainQueries(queryBus,
		middleware.QueryValidation(validation.New()),
		middleware.QueryCache(middleware.QueryCacheOptions{Store: cache, Clock: clock, TTL: time.Minute, Logger: logger}),
	)
	c := middleware.ChainCommands(commandBus,
		middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), middleware.JSONResultCodec{}),
	)

	router := NewRouter(obs.Middleware{Logger: logger}, obs.HealthHandlers{}, Handlers{
		Pricing:      PricingHandler{Queries: q, Logger: logger},
		OwnerPricing: OwnerPricingHandler{Queries: q, Commands: c, Logger: logger},
	})
	return testServer{router: router, cache: cache}
}

func (s testServer) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCalculateReturnsBreakdown(t *testing.T) {
	srv := newTestServer(t)

	// Friday and Saturday nights, 36 days ahead of the booking day.
	rec := srv.do(t, http.MethodGet, "/api/v1/pricing/calculate?siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-08", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[dto.PriceBreakdown](t, rec)
	if got.NumberOfNights != 2 || got.NumberOfGuests != 2 {
		t.Fatalf("nights=%d guests=%d", got.NumberOfNights, got.NumberOfGuests)
	}
	if got.Subtotal != 120000 || got.BasePrice != 120000 {
		t.Fatalf("subtotal=%d base=%d", got.Subtotal, got.BasePrice)
	}
	if got.TotalDiscount != 12000 || got.TotalAmount != 108000 {
		t.Fatalf("discount=%d total=%d", got.TotalDiscount, got.TotalAmount)
	}
	if len(got.DailyBreakdown) != 2 || got.DailyBreakdown[0].Weekend || !got.DailyBreakdown[1].Weekend {
		t.Fatalf("daily = %+v", got.DailyBreakdown)
	}
	if len(got.AppliedDiscounts) != 1 || got.AppliedDiscounts[0].DiscountType != "EARLY_BIRD" {
		t.Fatalf("discounts = %+v", got.AppliedDiscounts)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestCalculateChargesExtraGuests(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/pricing/calculate?siteId=3&checkInDate=2025-05-05&checkOutDate=2025-05-06&numberOfGuests=4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[dto.PriceBreakdown](t, rec)
	if got.ExtraGuestFee != 20000 || got.TotalAmount != 70000 {
		t.Fatalf("fee=%d total=%d", got.ExtraGuestFee, got.TotalAmount)
	}
}

func TestCalculateErrors(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"missing site", "checkInDate=2025-06-06&checkOutDate=2025-06-08", http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed date", "siteId=3&checkInDate=2025-13-01&checkOutDate=2025-06-08", http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"missing date", "siteId=3&checkInDate=2025-06-06", http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed guests", "siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-08&numberOfGuests=two", http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty stay", "siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-06", http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"reversed stay", "siteId=3&checkInDate=2025-06-08&checkOutDate=2025-06-06", http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"no guests", "siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-08&numberOfGuests=0", http.StatusBadRequest, "INVALID_GUEST_COUNT"},
		{"too many guests", "siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-08&numberOfGuests=5", http.StatusBadRequest, "GUEST_COUNT_EXCEEDED"},
		{"unknown site", "siteId=999&checkInDate=2025-06-06&checkOutDate=2025-06-08", http.StatusNotFound, "NO_APPLICABLE_RULE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/api/v1/pricing/calculate?"+tc.query, nil)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			body := decode[map[string]string](t, rec)
			if body["code"] != tc.code {
				t.Fatalf("code = %q, want %q", body["code"], tc.code)
			}
			if body["error"] == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestOwnerListsRulesInPrecedenceOrder(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/owner/sites/3/pricing", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[dto.SiteRuleCollection](t, rec)
	if got.SiteID != 3 || len(got.Items) != 2 {
		t.Fatalf("collection = %+v", got)
	}
	if got.Items[0].ID != 2 {
		t.Fatalf("first rule = %d, want seasonal rule 2", got.Items[0].ID)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/owner/sites/abc/pricing", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOwnerInvalidateDropsCachedQuotes(t *testing.T) {
	srv := newTestServer(t)

	quote := "/api/v1/pricing/calculate?siteId=3&checkInDate=2025-06-06&checkOutDate=2025-06-08"
	if rec := srv.do(t, http.MethodGet, quote, nil); rec.Code != http.StatusOK {
		t.Fatalf("quote status = %d", rec.Code)
	}

	header := http.Header{"Idempotency-Key": []string{"edit-1"}}
	rec := srv.do(t, http.MethodPost, "/api/v1/owner/sites/3/pricing/invalidate", header)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[pricingapp.InvalidateSiteQuotesResult](t, rec)
	if got.SiteID != 3 || got.Removed != 1 {
		t.Fatalf("result = %+v", got)
	}

	// A retried request replays the first outcome.
	rec = srv.do(t, http.MethodPost, "/api/v1/owner/sites/3/pricing/invalidate", header)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("replay status = %d", rec.Code)
	}
	if replayed := decode[pricingapp.InvalidateSiteQuotesResult](t, rec); replayed.Removed != 1 {
		t.Fatalf("replayed = %+v", replayed)
	}
}

func TestHealthAndSwaggerRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/livez", "/readyz", "/swagger", "/swagger/doc.json"} {
		if rec := srv.do(t, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestDocsPageAndDocumentCaching(t *testing.T) {
	srv := newTestServer(t)

	page := srv.do(t, http.MethodGet, "/swagger", nil)
	body := page.Body.String()
	if !strings.Contains(body, "<title>Campstation Pricing API 1.0.0</title>") || !strings.Contains(body, "doc.json") {
		t.Fatalf("docs page = %s", body)
	}
	if strings.Contains(body, "{{") {
		t.Fatal("docs page has unrendered placeholders")
	}

	doc := srv.do(t, http.MethodGet, "/swagger/doc.json", nil)
	etag := doc.Header().Get("ETag")
	if etag == "" || !strings.Contains(doc.Body.String(), "/api/v1/pricing/calculate") {
		t.Fatalf("document etag=%q body=%.80s", etag, doc.Body.String())
	}
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional status = %d, want 304", rec.Code)
	}
}
