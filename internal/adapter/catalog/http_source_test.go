package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Bayam","slug":"bayam","price":4500,"stock":10}]`))
	}))
	defer srv.Close()

	records, err := NewHTTPSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "Bayam" || !records[0].Price.Valid || records[0].Price.Value != 4500 {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestFetch_ItemsObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"name":"Tomat","unit_or_isi":"500g","active":false}]}`))
	}))
	defer srv.Close()

	records, err := NewHTTPSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].Inactive() {
		t.Error("expected record marked inactive")
	}
	if records[0].Unit != "500g" {
		t.Errorf("expected unit 500g, got %q", records[0].Unit)
	}
	if records[0].Price.Valid {
		t.Error("expected missing price to be invalid")
	}
}

func TestFetch_NonNumericPriceTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Cabe","price":"mahal"}]`))
	}))
	defer srv.Close()

	records, err := NewHTTPSource(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if records[0].Price.Valid {
		t.Error("expected non-numeric price to be invalid")
	}
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL).Fetch(context.Background()); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := NewHTTPSource(srv.URL).Fetch(context.Background()); err == nil {
		t.Error("expected error for unreachable source")
	}
}
