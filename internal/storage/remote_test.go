package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStateServer speaks the state service protocol over an in-memory map
type fakeStateServer struct {
	mu       sync.Mutex
	docs     map[string]json.RawMessage
	versions map[string]int64
	fail     bool
}

func newFakeStateServer() *fakeStateServer {
	return &fakeStateServer{docs: map[string]json.RawMessage{}, versions: map[string]int64{}}
}

func (f *fakeStateServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Server error"}`))
		return
	}
	key := r.URL.Query().Get("key")

	switch r.Method {
	case http.MethodGet:
		doc, ok := f.docs[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": doc, "version": f.versions[key]})
	case http.MethodPut:
		var body struct {
			Data json.RawMessage `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if match := r.Header.Get("If-Match"); match != "" {
			want, _ := strconv.ParseInt(strings.Trim(match, `"`), 10, 64)
			if want != f.versions[key] {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error":"Version conflict"}`))
				return
			}
		}
		f.docs[key] = body.Data
		f.versions[key]++
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "version": f.versions[key]})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestRemoteRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newFakeStateServer())
	defer srv.Close()

	b := NewRemoteBackend(srv.URL+"/", 2*time.Second)
	ctx := context.Background()

	if _, err := b.Get(ctx, KeyMerchants); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	doc := json.RawMessage(`[{"id":"m1","name":"Avoca Handweavers"}]`)
	v, err := b.Put(ctx, KeyMerchants, doc)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if v != 1 {
		t.Fatalf("version = %d", v)
	}

	rec, err := b.Get(ctx, KeyMerchants)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(rec.Data) != string(doc) || rec.Version != 1 {
		t.Fatalf("unexpected record %s v%d", rec.Data, rec.Version)
	}
}

func TestRemotePutIfConflict(t *testing.T) {
	srv := httptest.NewServer(newFakeStateServer())
	defer srv.Close()

	b := NewRemoteBackend(srv.URL, 2*time.Second)
	ctx := context.Background()

	if _, err := b.PutIf(ctx, KeyTickets, json.RawMessage(`[]`), 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := b.PutIf(ctx, KeyTickets, json.RawMessage(`[]`), 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := b.PutIf(ctx, KeyTickets, json.RawMessage(`[1]`), 1); err != nil {
		t.Fatalf("matching version: %v", err)
	}
}

func TestRemoteServerError(t *testing.T) {
	fake := newFakeStateServer()
	fake.fail = true
	srv := httptest.NewServer(fake)
	defer srv.Close()

	b := NewRemoteBackend(srv.URL, 2*time.Second)
	_, err := b.Get(context.Background(), KeyProducts)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Server error") {
		t.Errorf("error should carry the server message: %v", err)
	}
}
