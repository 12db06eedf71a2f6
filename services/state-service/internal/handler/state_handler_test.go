package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T) (*echo.Echo, *storage.LocalBackend) {
	t.Helper()
	backend, err := storage.OpenLocal(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	e := echo.New()
	NewStateHandler(backend).Register(e)
	return e, backend
}

func do(e *echo.Echo, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetRequiresKey(t *testing.T) {
	e, _ := newTestServer(t)
	if rec := do(e, http.MethodGet, "/state", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUnseededKeyIsNotFound(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(e, http.MethodGet, "/state?key=gt_db_products", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Not found" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestPutThenGet(t *testing.T) {
	e, _ := newTestServer(t)
	doc := `[{"id":"1","name":"Organic Bananas","stock":50}]`

	rec := do(e, http.MethodPut, "/state?key=gt_db_products", `{"data":`+doc+`}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var put PutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &put); err != nil {
		t.Fatal(err)
	}
	if !put.Success || put.Version != 1 {
		t.Errorf("unexpected PUT response %+v", put)
	}

	rec = do(e, http.MethodGet, "/state?key=gt_db_products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got != `"1"` {
		t.Errorf("ETag = %q", got)
	}
	var got StateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if string(got.Data) != doc {
		t.Errorf("data = %s, want %s", got.Data, doc)
	}
}

func TestPutRequiresData(t *testing.T) {
	e, _ := newTestServer(t)
	for _, body := range []string{`{}`, `{"other":1}`} {
		if rec := do(e, http.MethodPut, "/state?key=k", body, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
	if rec := do(e, http.MethodPut, "/state", `{"data":[]}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing key: expected 400, got %d", rec.Code)
	}
}

func TestConditionalPut(t *testing.T) {
	e, backend := newTestServer(t)
	if _, err := backend.Put(context.Background(), "gt_db_tickets", json.RawMessage(`[]`)); err != nil {
		t.Fatal(err)
	}

	rec := do(e, http.MethodPut, "/state?key=gt_db_tickets", `{"data":[1]}`, map[string]string{"If-Match": `"5"`})
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale If-Match: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodPut, "/state?key=gt_db_tickets", `{"data":[1]}`, map[string]string{"If-Match": `"1"`})
	if rec.Code != http.StatusOK {
		t.Fatalf("current If-Match: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") != `"2"` {
		t.Errorf("ETag = %q", rec.Header().Get("ETag"))
	}

	rec = do(e, http.MethodPut, "/state?key=gt_db_tickets", `{"data":[2]}`, map[string]string{"If-Match": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed If-Match: expected 400, got %d", rec.Code)
	}
}

func TestOptionsAndMethodNotAllowed(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodOptions, "/state?key=k", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS: expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		if rec := do(e, method, "/state?key=k", "", nil); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, rec.Code)
		}
	}
}

func TestRemoteBackendAgainstHandler(t *testing.T) {
	e, _ := newTestServer(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	remote := storage.NewRemoteBackend(srv.URL, 0)
	ctx := context.Background()

	if _, err := remote.Get(ctx, storage.KeyCustomers); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if v, err := remote.PutIf(ctx, storage.KeyCustomers, json.RawMessage(`[]`), 0); err != nil || v != 1 {
		t.Fatalf("create: v=%d err=%v", v, err)
	}
	if _, err := remote.PutIf(ctx, storage.KeyCustomers, json.RawMessage(`[]`), 0); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("second create: %v", err)
	}
	rec, err := remote.Get(ctx, storage.KeyCustomers)
	if err != nil || rec.Version != 1 || string(rec.Data) != `[]` {
		t.Fatalf("Get: %+v %v", rec, err)
	}
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	e, backend := newTestServer(t)
	e.GET("/health", HealthCheck("state-service", backend))
	e.GET("/health-down", HealthCheck("state-service", downStore{}))

	if rec := do(e, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health-down", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestGetCompactsAndEscapesDocument(t *testing.T) {
	e, backend := newTestServer(t)
	doc := "[ {\"name\": \"Oat <Milk>\",\n  \"stock\": 2} ]"

	rec := do(e, http.MethodPut, "/state?key=gt_db_products", `{"data":`+doc+`}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, err := backend.Get(context.Background(), "gt_db_products")
	if err != nil {
		t.Fatal(err)
	}
	if string(stored.Data) != doc {
		t.Errorf("stored = %s, want the document as sent", stored.Data)
	}

	rec = do(e, http.MethodGet, "/state?key=gt_db_products", "", nil)
	var got StateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := `[{"name":"Oat \u003cMilk\u003e","stock":2}]`
	if string(got.Data) != want {
		t.Errorf("data = %s, want %s", got.Data, want)
	}

	var sent, returned any
	_ = json.Unmarshal([]byte(doc), &sent)
	_ = json.Unmarshal(got.Data, &returned)
	if !reflect.DeepEqual(sent, returned) {
		t.Errorf("returned document %v differs from %v", returned, sent)
	}
}

// brokenStore fails every backend call with a driver error
type brokenStore struct {
	storage.Backend
}

var errDriver = errors.New(`pq: relation "app_state" does not exist`)

func (brokenStore) Get(context.Context, string) (storage.Record, error) {
	return storage.Record{}, errDriver
}

func (brokenStore) Put(context.Context, string, json.RawMessage) (int64, error) {
	return 0, errDriver
}

func TestServerErrorHidesDetail(t *testing.T) {
	e := echo.New()
	NewStateHandler(brokenStore{}).Register(e)

	for _, rec := range []*httptest.ResponseRecorder{
		do(e, http.MethodGet, "/state?key=gt_db_products", "", nil),
		do(e, http.MethodPut, "/state?key=gt_db_products", `{"data":[]}`, nil),
	} {
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "app_state") {
			t.Errorf("driver detail leaked: %s", rec.Body.String())
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] != "Server error" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	}
}
