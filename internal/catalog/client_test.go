package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polarbookshop/orderservice/internal/catalog"
)

func TestClientGetBookByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/1234567890" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isbn":"1234567890","title":"Title","author":"Author","price":9.90}`))
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)
	book, err := client.GetBookByISBN(context.Background(), "1234567890")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if book == nil {
		t.Fatal("expected book, got nil")
	}
	if book.Title != "Title" || book.Author != "Author" {
		t.Fatalf("unexpected book: %+v", book)
	}
	if book.Price != 9.90 {
		t.Fatalf("expected price 9.90, got %v", book.Price)
	}
	if book.Label() != "Title - Author" {
		t.Fatalf("unexpected label: %s", book.Label())
	}
}

func TestClientBookNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)
	book, err := client.GetBookByISBN(context.Background(), "0000000000")
	if err != nil {
		t.Fatalf("404 is a valid outcome, got error: %v", err)
	}
	if book != nil {
		t.Fatalf("expected nil book, got %+v", book)
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)
	if _, err := client.GetBookByISBN(context.Background(), "1234567890"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestClientUnreachable(t *testing.T) {
	client := catalog.NewClient("http://127.0.0.1:1")
	if _, err := client.GetBookByISBN(context.Background(), "1234567890"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestMockCatalog(t *testing.T) {
	mock := catalog.NewMockCatalog()

	book, err := mock.GetBookByISBN(context.Background(), "1234567890")
	if err != nil || book != nil {
		t.Fatalf("empty mock must return nil, nil; got %v, %v", book, err)
	}
	if mock.LookupCalls != 1 {
		t.Fatalf("expected 1 lookup, got %d", mock.LookupCalls)
	}
}
