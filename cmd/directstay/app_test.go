package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"directstay/internal/app/dto"
	ginserver "directstay/internal/infra/http/gin"
	"directstay/internal/infra/obs"
	"directstay/internal/infra/storage/memory"
)

const fixturesPath = "../../fixtures/listings.json"

type testApp struct {
	router   *gin.Engine
	payments *memory.PaymentsGateway
	outbox   *memory.Outbox
	promos   *memory.PromoRepository
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	listings := memory.NewListingRepository()
	if _, err := listings.LoadFixtures(fixturesPath); err != nil {
		t.Fatalf("load listings: %v", err)
	}
	rates := memory.NewRateTable()
	if _, err := rates.LoadFixtures(fixturesPath); err != nil {
		t.Fatalf("load rates: %v", err)
	}
	promos := memory.NewPromoRepository()
	box := memory.NewOutbox()
	payments := memory.NewPaymentsGateway("https://pay.test/checkout")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := buildApplication(dependencies{
		Listings:    listings,
		Rates:       rates,
		Config:      memory.NewConfigStore(),
		Promos:      promos,
		UoW:         memory.Factory{Bookings: memory.NewBookingRepository(), Promos: promos, Invoices: memory.NewInvoiceRepository()},
		Idempotency: memory.NewIdempotencyStore(),
		Outbox:      box,
		Payments:    payments,
		Logger:      logger,
		Now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	router := ginserver.NewRouter("test", obs.Middleware{}, obs.HealthHandlers{}, app.handlers)
	return testApp{router: router, payments: payments, outbox: box, promos: promos}
}

func (a testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestPreviewAndCheckoutAgree(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/admin/promo-codes", map[string]any{
		"code":           "SUMMER10",
		"discount_type":  "percentage",
		"discount_value": 10,
		"property_id":    "*",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create promo: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/api/v1/properties/ocean-view-cottage/pricing?check_in=2025-07-10&check_out=2025-07-13&guests=2&promo_code=SUMMER10", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: status %d body %s", rec.Code, rec.Body.String())
	}
	preview := decode[dto.PriceBreakdown](t, rec)
	if preview.Fallback {
		t.Fatalf("expected provider-driven daily rates, got fallback")
	}
	if len(preview.DailyRates) != 3 {
		t.Fatalf("expected 3 daily rates, got %d", len(preview.DailyRates))
	}
	if preview.PromoDiscount == nil {
		t.Fatalf("expected promo discount in preview")
	}

	rec = app.do(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"property_id": "ocean-view-cottage",
		"check_in":    "2025-07-10",
		"check_out":   "2025-07-13",
		"guests":      2,
		"promo_code":  "SUMMER10",
		"guest_email": "guest@example.com",
	}, map[string]string{"Idempotency-Key": "checkout-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d body %s", rec.Code, rec.Body.String())
	}
	result := decode[dto.CheckoutResult](t, rec)
	if result.Total != preview.Total {
		t.Fatalf("checkout total %+v differs from preview %+v", result.Total, preview.Total)
	}
	session, ok := app.payments.Session(result.SessionID)
	if !ok {
		t.Fatalf("payment session %q not recorded", result.SessionID)
	}
	if session.Amount.Amount != preview.Total.Amount {
		t.Fatalf("session amount %d, want %d", session.Amount.Amount, preview.Total.Amount)
	}

	replay := app.do(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"property_id": "ocean-view-cottage",
		"check_in":    "2025-07-10",
		"check_out":   "2025-07-13",
		"guests":      2,
		"promo_code":  "SUMMER10",
		"guest_email": "guest@example.com",
	}, map[string]string{"Idempotency-Key": "checkout-1"})
	if replay.Code != http.StatusCreated {
		t.Fatalf("replay: status %d", replay.Code)
	}
	if got := decode[dto.CheckoutResult](t, replay); got.BookingID != result.BookingID {
		t.Fatalf("replay created booking %q, want %q", got.BookingID, result.BookingID)
	}
}

func TestConfirmPaymentCountsPromoOnce(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodPost, "/api/v1/admin/promo-codes", map[string]any{
		"code":           "ONCE",
		"discount_type":  "flat",
		"discount_value": 25,
		"property_id":    "ocean-view-cottage",
	}, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/checkout", map[string]any{
		"property_id": "ocean-view-cottage",
		"check_in":    "2025-08-04",
		"check_out":   "2025-08-07",
		"guests":      2,
		"promo_code":  "ONCE",
		"guest_email": "guest@example.com",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d body %s", rec.Code, rec.Body.String())
	}
	bookingID := decode[dto.CheckoutResult](t, rec).BookingID

	rec = app.do(t, http.MethodPost, "/api/v1/payments/confirm", map[string]any{
		"event_id":    "evt-0",
		"booking_id":  bookingID,
		"payment_ref": "pi_123",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("confirm without status: status %d body %s", rec.Code, rec.Body.String())
	}

	for _, eventID := range []string{"evt-1", "evt-1", "evt-2"} {
		rec = app.do(t, http.MethodPost, "/api/v1/payments/confirm", map[string]any{
			"event_id":    eventID,
			"booking_id":  bookingID,
			"payment_ref": "pi_123",
			"status":      "succeeded",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("confirm %s: status %d body %s", eventID, rec.Code, rec.Body.String())
		}
	}

	rec = app.do(t, http.MethodGet, "/api/v1/admin/promo-codes", nil, nil)
	list := decode[dto.PromoCodeCollection](t, rec)
	if len(list.Items) != 1 || list.Items[0].CurrentUses != 1 {
		t.Fatalf("expected one use recorded, got %+v", list.Items)
	}

	var confirmed int
	for _, name := range app.outbox.Pending() {
		if name == "booking.confirmed" {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Fatalf("expected one booking.confirmed event, got %d in %v", confirmed, app.outbox.Pending())
	}
}

func TestAdminCleaningFeeOverrideReachesPreview(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPut, "/api/v1/admin/config/cleaning-fees", map[string]float64{"ocean-view-cottage": 200}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("put config: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = app.do(t, http.MethodGet, "/api/v1/properties/ocean-view-cottage/pricing?check_in=2025-07-10&check_out=2025-07-13", nil, nil)
	preview := decode[dto.PriceBreakdown](t, rec)
	if preview.CleaningFee.Amount != 20000 {
		t.Fatalf("cleaning fee %d, want 20000", preview.CleaningFee.Amount)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/admin/config/unknown", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown config: status %d, want 404", rec.Code)
	}
}

func TestPreviewRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	cases := map[string]struct {
		path string
		want int
	}{
		"bad date":      {"/api/v1/properties/ocean-view-cottage/pricing?check_in=07/10/2025&check_out=2025-07-13", http.StatusBadRequest},
		"below minimum": {"/api/v1/properties/ocean-view-cottage/pricing?check_in=2025-07-10&check_out=2025-07-11", http.StatusBadRequest},
		"in the past":   {"/api/v1/properties/ocean-view-cottage/pricing?check_in=2025-05-10&check_out=2025-05-13", http.StatusBadRequest},
		"unknown":       {"/api/v1/properties/nowhere/pricing?check_in=2025-07-10&check_out=2025-07-13", http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, tc.path, nil, nil)
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestInvoiceRoundTrip(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/api/v1/admin/invoices", map[string]any{
		"property_id": "ocean-view-cottage",
		"guest_name":  "Ada Guest",
		"currency":    "USD",
		"items":       []map[string]any{{"description": "Late checkout", "quantity": 1, "unit_price": 150}},
		"tax_rate":    10,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.Invoice](t, rec)
	if created.Total.Amount != 16500 {
		t.Fatalf("invoice total %d, want 16500", created.Total.Amount)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/admin/invoices/"+created.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get invoice: status %d", rec.Code)
	}
	if got := decode[dto.Invoice](t, rec); got.Total != created.Total {
		t.Fatalf("stored total %+v, want %+v", got.Total, created.Total)
	}
}
