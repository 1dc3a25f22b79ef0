package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/cache"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/config"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

type stubCatalog struct {
	data  json.RawMessage
	err   error
	calls int
}

func (s *stubCatalog) respond() (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.data == nil {
		return json.RawMessage(`{"objects":[]}`), nil
	}
	return s.data, nil
}

func (s *stubCatalog) Locations(context.Context) (json.RawMessage, error)        { return s.respond() }
func (s *stubCatalog) Products(context.Context) (json.RawMessage, error)         { return s.respond() }
func (s *stubCatalog) Categories(context.Context) (json.RawMessage, error)       { return s.respond() }
func (s *stubCatalog) Modifiers(context.Context) (json.RawMessage, error)        { return s.respond() }
func (s *stubCatalog) Discounts(context.Context) (json.RawMessage, error)        { return s.respond() }
func (s *stubCatalog) MeasurementUnits(context.Context) (json.RawMessage, error) { return s.respond() }

var _ services.CatalogService = (*stubCatalog)(nil)

type stubCheckout struct {
	result services.CheckoutResult
	err    error
	reqs   []services.CheckoutRequest
}

func (s *stubCheckout) CreateCheckout(_ context.Context, req services.CheckoutRequest) (services.CheckoutResult, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return services.CheckoutResult{}, s.err
	}
	return s.result, nil
}

var _ services.CheckoutService = (*stubCheckout)(nil)

type stubOrders struct {
	status      services.StoreStatus
	data        json.RawMessage
	orderErr    error
	paymentErr  error
	orderCalls  int
	paymentReqs []services.PaymentRequest
}

func (s *stubOrders) CreateOrder(context.Context, square.Order) (json.RawMessage, error) {
	s.orderCalls++
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	if s.data == nil {
		return json.RawMessage(`{"order":{"id":"ord_1"}}`), nil
	}
	return s.data, nil
}

func (s *stubOrders) ProcessPayment(_ context.Context, req services.PaymentRequest) (json.RawMessage, error) {
	s.paymentReqs = append(s.paymentReqs, req)
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	if s.data == nil {
		return json.RawMessage(`{"payment":{"id":"pay_1"}}`), nil
	}
	return s.data, nil
}

func (s *stubOrders) Status() services.StoreStatus { return s.status }

var _ services.OrderService = (*stubOrders)(nil)

type stubSystem struct {
	report domain.SystemHealthReport
	err    error
}

func (s *stubSystem) HealthReport(context.Context) (domain.SystemHealthReport, error) {
	if s.err != nil {
		return domain.SystemHealthReport{}, s.err
	}
	return s.report, nil
}

var _ services.SystemService = (*stubSystem)(nil)

func testConfig() config.Config {
	cfg, _ := config.Load(
		config.WithoutSystemEnv(),
		config.WithEnvFile(""),
		config.WithEnvMap(map[string]string{
			"SQUARE_ACCESS_TOKEN": "secret-token",
			"SQUARE_LOCATION_ID":  "loc_1",
		}),
	)
	return cfg
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytesReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func newCacheStore() *cache.Store {
	return cache.NewStore()
}

func bytesReader(body []byte) io.Reader {
	return bytes.NewReader(body)
}
