package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/jwtutil"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/insights"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/receipts"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/labstack/echo/v4"
)

type testAPI struct {
	e        *echo.Echo
	store    *storage.Service
	admin    string
	merchant string
}

var seedConfig = config.SeedConfig{
	AdminEmail:       "admin@greentill.ie",
	AdminPassword:    "admin-pass",
	MerchantEmail:    "hello@avoca.ie",
	MerchantPassword: "merchant-pass",
	MerchantID:       "m1",
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	backend, err := storage.OpenLocal(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	store := storage.NewService(backend, nil)
	t.Cleanup(func() { _ = store.Close() })

	operators, err := fixtures.Operators(seedConfig)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Init(context.Background(), fixtures.Collections(time.Now(), operators)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	j := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := echo.New()
	New(store, j, nil).Register(e)

	admin, _ := j.GenerateToken("admin@greentill.ie", "op-admin", jwtutil.RoleAdmin, "")
	merchant, _ := j.GenerateToken("hello@avoca.ie", "op-m1", jwtutil.RoleMerchant, "m1")
	return &testAPI{e: e, store: store, admin: admin, merchant: merchant}
}

func (a *testAPI) call(method, target, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, target, strings.NewReader(string(raw)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.call(http.MethodPost, "/auth/login", "", LoginRequest{Email: "HELLO@avoca.ie", Password: "merchant-pass"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[struct {
		Token string `json:"token"`
	}](t, rec)

	rec = api.call(http.MethodGet, "/api/me", body.Token, nil)
	me := decode[map[string]string](t, rec)
	if me["role"] != jwtutil.RoleMerchant || me["merchantId"] != "m1" {
		t.Errorf("unexpected claims %v", me)
	}

	for _, req := range []LoginRequest{
		{Email: "hello@avoca.ie", Password: "wrong"},
		{Email: "nobody@example.ie", Password: "merchant-pass"},
	} {
		if rec := api.call(http.MethodPost, "/auth/login", "", req); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", req.Email, rec.Code)
		}
	}
	if rec := api.call(http.MethodPost, "/auth/login", "", LoginRequest{}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty form: expected 400, got %d", rec.Code)
	}
}

func TestCompleteSale(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	rec := api.call(http.MethodPost, "/api/checkout/sales", api.merchant, map[string]any{
		"items":      []map[string]any{{"productId": "1", "quantity": 2, "price": 4.50}},
		"customerId": "c2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tx := decode[model.Transaction](t, rec)
	if tx.Total != 9.00 || math.Abs(tx.EcoImpactSaved-1.90) > 1e-9 {
		t.Errorf("total=%v eco=%v", tx.Total, tx.EcoImpactSaved)
	}
	if tx.MerchantID != "m1" || !tx.IsMatched || tx.CarbonOffsetContribution != 1.00 {
		t.Errorf("unexpected transaction %+v", tx)
	}

	products, _ := api.store.Products(ctx)
	if products[model.FindProduct(products, "1")].Stock != 48 {
		t.Errorf("stock not decremented: %+v", products[0])
	}
	customers, _ := api.store.Customers(ctx)
	for _, c := range customers {
		if c.ID == "c2" && (c.VisitCount != 6 || c.TotalSpend != 129) {
			t.Errorf("customer not credited: %+v", c)
		}
	}

	rec = api.call(http.MethodGet, "/api/merchants/m1/dashboard", api.merchant, nil)
	dash := decode[insights.MerchantDashboard](t, rec)
	if dash.TransactionCount != 1 || dash.TotalSales != 9 || dash.MerchantMatch != 1 {
		t.Errorf("unexpected dashboard %+v", dash)
	}
}

func TestCompleteSaleRejectsEmptyCart(t *testing.T) {
	api := newTestAPI(t)
	rec := api.call(http.MethodPost, "/api/checkout/sales", api.merchant, map[string]any{"items": []any{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	txs, _ := api.store.Transactions(context.Background())
	if len(txs) != 0 {
		t.Errorf("empty cart must not be recorded")
	}
}

func TestQuote(t *testing.T) {
	api := newTestAPI(t)
	if rec := api.call(http.MethodPost, "/api/checkout/quote", api.merchant, QuoteRequest{}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty cart: expected 400, got %d", rec.Code)
	}

	rec := api.call(http.MethodPost, "/api/checkout/quote", api.merchant, map[string]any{
		"items":  []map[string]any{{"productId": "2", "quantity": 3}},
		"add":    []string{"1", "1"},
		"remove": []string{"1"},
	})
	q := decode[Quote](t, rec)
	if len(q.Items) != 2 || q.Total != 40.5 || q.CarbonOffsetContribution != 1 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestQuoteMatchesSale(t *testing.T) {
	api := newTestAPI(t)
	items := []map[string]any{
		{"productId": "1", "quantity": 1, "price": 1.00},
		{"productId": "ghost", "quantity": 1, "price": 5.00},
	}

	q := decode[Quote](t, api.call(http.MethodPost, "/api/checkout/quote", api.merchant, map[string]any{"items": items}))
	rec := api.call(http.MethodPost, "/api/checkout/sales", api.merchant, map[string]any{"items": items})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tx := decode[model.Transaction](t, rec)
	if q.Total != 6 || tx.Total != q.Total {
		t.Errorf("quote total %v, sale total %v, want 6", q.Total, tx.Total)
	}

	bad := map[string]any{"items": append(items, map[string]any{"productId": "2", "quantity": -3})}
	for _, path := range []string{"/api/checkout/quote", "/api/checkout/sales"} {
		if rec := api.call(http.MethodPost, path, api.merchant, bad); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 for negative quantity, got %d", path, rec.Code)
		}
	}
}

func TestQuoteHugeQuantity(t *testing.T) {
	api := newTestAPI(t)
	done := make(chan int, 1)
	go func() {
		rec := api.call(http.MethodPost, "/api/checkout/quote", api.merchant, map[string]any{
			"items": []map[string]any{{"productId": "1", "quantity": math.MaxInt64}},
		})
		done <- rec.Code
	}()
	select {
	case code := <-done:
		if code != http.StatusOK {
			t.Errorf("expected 200, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("quote did not return")
	}
}

func TestMerchantScope(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		path string
		want int
	}{
		{"/api/merchants/m1", http.StatusOK},
		{"/api/merchants/m2", http.StatusForbidden},
		{"/api/merchants", http.StatusForbidden},
		{"/api/admin/dashboard", http.StatusForbidden},
		{"/api/merchants/m2/inventory", http.StatusForbidden},
	}
	for _, tc := range cases {
		if rec := api.call(http.MethodGet, tc.path, api.merchant, nil); rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.want, rec.Code)
		}
	}

	if rec := api.call(http.MethodGet, "/api/merchants/m2", api.admin, nil); rec.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", rec.Code)
	}
	if rec := api.call(http.MethodGet, "/api/merchants/nope", api.admin, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown merchant: expected 404, got %d", rec.Code)
	}
	if rec := api.call(http.MethodGet, "/api/merchants/m1", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", rec.Code)
	}
}

func TestFeatureToggles(t *testing.T) {
	api := newTestAPI(t)

	// merchants cannot license, admins cannot activate
	if rec := api.call(http.MethodPut, "/api/merchants/m1/ces/features/marketing_email/license", api.merchant, ToggleRequest{Value: boolPtr(true)}); rec.Code != http.StatusForbidden {
		t.Errorf("merchant license: expected 403, got %d", rec.Code)
	}
	if rec := api.call(http.MethodPut, "/api/merchants/m1/ces/features/warranty_email/active", api.admin, ToggleRequest{Value: boolPtr(true)}); rec.Code != http.StatusForbidden {
		t.Errorf("admin activation: expected 403, got %d", rec.Code)
	}

	rec := api.call(http.MethodPut, "/api/merchants/m1/ces/features/marketing_email/active", api.merchant, ToggleRequest{Value: boolPtr(true)})
	if rec.Code != http.StatusForbidden {
		t.Errorf("unlicensed activation: expected 403, got %d", rec.Code)
	}

	rec = api.call(http.MethodPut, "/api/merchants/m1/ces/features/warranty_email/active", api.merchant, ToggleRequest{Value: boolPtr(true)})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = api.call(http.MethodPut, "/api/merchants/m1/ces/features/tc_email/active", api.merchant, ToggleRequest{Value: boolPtr(false)})
	cfg := decode[model.CESConfig](t, rec)
	for _, f := range cfg.Features {
		if (f.ID == "tc_email" || f.ParentID == "tc_email") && f.IsActive {
			t.Errorf("%s still active after parent was switched off", f.ID)
		}
	}

	rec = api.call(http.MethodPut, "/api/merchants/m1/ces/features/tc_email/license", api.admin, ToggleRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing value: expected 400, got %d", rec.Code)
	}
	rec = api.call(http.MethodPut, "/api/merchants/m1/ces/features/ghost/license", api.admin, ToggleRequest{Value: boolPtr(false)})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown feature: expected 404, got %d", rec.Code)
	}
}

func TestTemplateEditing(t *testing.T) {
	api := newTestAPI(t)
	base := "/api/merchants/m1/ces/features/tc_email"

	subject := "Hello {{customer_name}}, order {{transaction_id}}"
	rec := api.call(http.MethodPatch, base+"/template", api.merchant, map[string]any{"subject": subject})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", rec.Code)
	}
	feature := decode[model.CESFeature](t, rec)
	if feature.Template.Subject != subject || feature.Template.LastUpdated == nil {
		t.Errorf("template not updated: %+v", feature.Template)
	}

	rec = api.call(http.MethodPost, base+"/attachments", api.merchant, model.Attachment{Name: "care-guide.pdf", Size: "1.2MB", Type: "pdf"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("attach: expected 201, got %d", rec.Code)
	}
	att := decode[model.Attachment](t, rec)
	if att.ID == "" {
		t.Fatal("attachment id not assigned")
	}

	rec = api.call(http.MethodGet, base+"/preview", api.merchant, nil)
	preview := decode[map[string]any](t, rec)
	if preview["subject"] != "Hello Liam, order TX-DESK-4521" {
		t.Errorf("preview subject = %v", preview["subject"])
	}
	rec = api.call(http.MethodGet, base+"/preview?customerName=Aoife&transactionId=TX-1", api.merchant, nil)
	if preview = decode[map[string]any](t, rec); preview["subject"] != "Hello Aoife, order TX-1" {
		t.Errorf("preview subject = %v", preview["subject"])
	}

	if rec = api.call(http.MethodDelete, base+"/attachments/"+att.ID, api.merchant, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("detach: expected 204, got %d", rec.Code)
	}
	merchants, _ := api.store.Merchants(context.Background())
	for _, f := range merchants[model.FindMerchant(merchants, "m1")].CESConfig.Features {
		if f.ID == "tc_email" && len(f.Template.Attachments) != 0 {
			t.Errorf("attachment not removed: %+v", f.Template.Attachments)
		}
	}

	rec = api.call(http.MethodPut, "/api/merchants/m1/ces/period", api.merchant, PeriodRequest{Period: "HOURLY"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad period: expected 400, got %d", rec.Code)
	}
}

func TestLoyalty(t *testing.T) {
	api := newTestAPI(t)

	rec := api.call(http.MethodPatch, "/api/merchants/m1/loyalty", api.merchant, map[string]any{
		"type":         "VISIT",
		"couponDesign": map[string]any{"prefix": "green"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cfg := decode[model.LoyaltyConfig](t, rec)
	if cfg.Type != model.LoyaltyVisit || cfg.Threshold != 10 || cfg.CouponDesign.Prefix != "GREEN" {
		t.Errorf("unexpected loyalty %+v", cfg)
	}

	rec = api.call(http.MethodGet, "/api/customers/c1/progress", api.merchant, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress: expected 200, got %d", rec.Code)
	}
	progress := decode[map[string]any](t, rec)
	// c1 has 18 visits against a threshold of 10
	if progress["rewardsEarned"] != float64(1) || progress["remaining"] != float64(2) {
		t.Errorf("unexpected progress %v", progress)
	}

	if rec := api.call(http.MethodPatch, "/api/merchants/m1/loyalty", api.merchant, map[string]any{"type": "POINTS"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad type: expected 400, got %d", rec.Code)
	}
	if rec := api.call(http.MethodGet, "/api/customers/c1/progress", api.admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("admin without merchantId: expected 400, got %d", rec.Code)
	}
}

func TestInventory(t *testing.T) {
	api := newTestAPI(t)

	rec := api.call(http.MethodGet, "/api/merchants/m1/inventory/low", api.merchant, nil)
	alerts := decode[[]map[string]any](t, rec)
	if len(alerts) != 1 || alerts[0]["productId"] != "2" {
		t.Fatalf("unexpected alerts %v", alerts)
	}

	rec = api.call(http.MethodPut, "/api/merchants/m1/branches/b1/inventory/2", api.merchant, StockRequest{Quantity: 40, MinThreshold: 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("set stock: expected 200, got %d", rec.Code)
	}
	rec = api.call(http.MethodGet, "/api/merchants/m1/inventory/low", api.merchant, nil)
	if alerts = decode[[]map[string]any](t, rec); len(alerts) != 0 {
		t.Errorf("expected no alerts after restock, got %v", alerts)
	}

	if rec := api.call(http.MethodPut, "/api/merchants/m1/branches/b1/inventory/2", api.merchant, StockRequest{Quantity: -1}); rec.Code != http.StatusBadRequest {
		t.Errorf("negative stock: expected 400, got %d", rec.Code)
	}
	if rec := api.call(http.MethodPut, "/api/merchants/m1/branches/zz/inventory/2", api.merchant, StockRequest{Quantity: 1}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown branch: expected 404, got %d", rec.Code)
	}

	rec = api.call(http.MethodGet, "/api/products?q=BAMBOO", api.merchant, nil)
	if products := decode[[]model.Product](t, rec); len(products) != 1 || products[0].ID != "1" {
		t.Errorf("search returned %+v", products)
	}
}

func TestTickets(t *testing.T) {
	api := newTestAPI(t)

	rec := api.call(http.MethodPost, "/api/tickets", api.merchant, map[string]any{
		"merchantId": "m2", // overridden by the token
		"branchId":   "b1",
		"deviceId":   "d2",
		"subject":    "Card reader intermittent",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Ticket](t, rec)
	if created.ID != "TK-104" || created.MerchantID != "m1" || created.Priority != model.PriorityMedium || created.Status != model.TicketOpen {
		t.Errorf("unexpected ticket %+v", created)
	}

	rec = api.call(http.MethodGet, "/api/tickets?status=OPEN", api.merchant, nil)
	if views := decode[[]map[string]any](t, rec); len(views) != 2 {
		t.Errorf("merchant should see its two open tickets, got %d", len(views))
	}

	if rec := api.call(http.MethodPatch, "/api/tickets/TK-104/status", api.merchant, StatusRequest{Status: model.TicketClosed}); rec.Code != http.StatusForbidden {
		t.Errorf("merchant status change: expected 403, got %d", rec.Code)
	}
	rec = api.call(http.MethodPatch, "/api/tickets/TK-104/status", api.admin, StatusRequest{Status: model.TicketClosed})
	if rec.Code != http.StatusOK {
		t.Fatalf("status change: expected 200, got %d", rec.Code)
	}
	if rec := api.call(http.MethodPatch, "/api/tickets/TK-999/status", api.admin, StatusRequest{Status: model.TicketClosed}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown ticket: expected 404, got %d", rec.Code)
	}
	if rec := api.call(http.MethodGet, "/api/tickets?status=LOST", api.admin, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter: expected 400, got %d", rec.Code)
	}

	rec = api.call(http.MethodGet, "/api/devices/stats", api.merchant, nil)
	if stats := decode[map[string]int](t, rec); stats["total"] != 2 {
		t.Errorf("merchant should see its own two devices, got %v", stats)
	}
}

func TestOnboarding(t *testing.T) {
	api := newTestAPI(t)
	form := map[string]any{
		"name":           "Kilkenny Design",
		"email":          "shop@kilkenny.ie",
		"category":       "Fashion",
		"branchName":     "Nassau Street",
		"branchLocation": "6 Nassau St, Dublin 2",
	}

	rec := api.call(http.MethodPost, "/api/merchants", api.admin, form)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[model.Merchant](t, rec)
	if !strings.HasPrefix(created.ID, "m-") || len(created.Branches) != 1 || !created.OffsetEnabled {
		t.Errorf("unexpected merchant %+v", created)
	}

	if rec := api.call(http.MethodPost, "/api/merchants", api.admin, form); rec.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", rec.Code)
	}
	delete(form, "branchName")
	form["email"] = "other@kilkenny.ie"
	if rec := api.call(http.MethodPost, "/api/merchants", api.admin, form); rec.Code != http.StatusBadRequest {
		t.Errorf("missing field: expected 400, got %d", rec.Code)
	}

	rec = api.call(http.MethodGet, "/api/admin/dashboard", api.admin, nil)
	dash := decode[insights.AdminDashboard](t, rec)
	if dash.MerchantCount != 11 {
		t.Errorf("merchant count = %d", dash.MerchantCount)
	}
}

func TestUpdateSettings(t *testing.T) {
	api := newTestAPI(t)

	rec := api.call(http.MethodPatch, "/api/merchants/m1/settings", api.merchant, map[string]any{
		"offsetMatching": false,
		"selectedNGOs":   []string{"ngo2", "ngo3"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	m := decode[model.Merchant](t, rec)
	if m.OffsetMatching || !m.OffsetEnabled || len(m.SelectedNGOs) != 2 {
		t.Errorf("unexpected settings %+v", m)
	}

	rec = api.call(http.MethodPatch, "/api/merchants/m1/settings", api.merchant, map[string]any{"selectedNGOs": []string{"ngo9"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown NGO: expected 400, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)
	if rec := api.call(http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestReceiptPromotion(t *testing.T) {
	api := newTestAPI(t)
	const promoPath = "/api/merchants/m1/receipt/promotion"
	const previewPath = "/api/merchants/m1/receipt/preview"

	promo := decode[model.ReceiptPromotion](t, api.call(http.MethodGet, promoPath, api.merchant, nil))
	if promo.Condition != model.PromoHighCO2 || promo.Text == "" {
		t.Fatalf("unexpected default promotion %+v", promo)
	}

	heavy := map[string]any{"items": []map[string]any{{"productId": "2", "quantity": 40}}}
	r := decode[receipts.Receipt](t, api.call(http.MethodPost, previewPath, api.merchant, heavy))
	if r.Promotion != promo.Text || r.Total != 480 {
		t.Errorf("heavy cart should carry the default promotion: %+v", r)
	}

	rec := api.call(http.MethodPut, promoPath, api.merchant, model.ReceiptPromotion{Text: " Free refill ", Condition: model.PromoSpendThreshold})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.ReceiptPromotion](t, api.call(http.MethodGet, promoPath, api.admin, nil)); got.Text != "Free refill" {
		t.Errorf("saved promotion = %+v", got)
	}

	small := map[string]any{"items": []map[string]any{{"productId": "1", "quantity": 1}}}
	if r := decode[receipts.Receipt](t, api.call(http.MethodPost, previewPath, api.merchant, small)); r.Promotion != "" {
		t.Errorf("small cart should not carry the spend promotion: %q", r.Promotion)
	}
	big := map[string]any{"items": []map[string]any{{"productId": "2", "quantity": 5}}}
	if r := decode[receipts.Receipt](t, api.call(http.MethodPost, previewPath, api.merchant, big)); r.Promotion != "Free refill" {
		t.Errorf("60.00 cart should carry the spend promotion: %q", r.Promotion)
	}

	draft := map[string]any{
		"items":     []map[string]any{{"productId": "1", "quantity": 1}},
		"promotion": map[string]any{"text": "Hello", "condition": model.PromoAlways},
	}
	if r := decode[receipts.Receipt](t, api.call(http.MethodPost, previewPath, api.merchant, draft)); r.Promotion != "Hello" {
		t.Errorf("draft promotion not previewed: %q", r.Promotion)
	}
	if got := decode[model.ReceiptPromotion](t, api.call(http.MethodGet, promoPath, api.merchant, nil)); got.Condition != model.PromoSpendThreshold {
		t.Errorf("preview must not save the draft: %+v", got)
	}

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown condition", http.MethodPut, promoPath, model.ReceiptPromotion{Text: "x", Condition: "RAINY"}, http.StatusBadRequest},
		{"missing text", http.MethodPut, promoPath, model.ReceiptPromotion{Condition: model.PromoAlways}, http.StatusBadRequest},
		{"other merchant", http.MethodPut, "/api/merchants/m2/receipt/promotion", model.ReceiptPromotion{Text: "x", Condition: model.PromoAlways}, http.StatusForbidden},
		{"empty preview", http.MethodPost, previewPath, map[string]any{"items": []any{}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := api.call(tc.method, tc.path, api.merchant, tc.body); rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}

func TestListCustomersRanked(t *testing.T) {
	api := newTestAPI(t)
	customers := decode[[]insights.CustomerInsight](t, api.call(http.MethodGet, "/api/customers", api.merchant, nil))

	var got []string
	for _, c := range customers {
		got = append(got, c.ID+":"+c.Tier)
	}
	if strings.Join(got, ",") != "c1:VIP,c3:Regular,c2:Regular" {
		t.Errorf("ranking = %v", got)
	}
}
