package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finbook/finbook"
)

func newTestServer(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	c := New("secret")
	c.BaseURL = server.URL
	return c
}

func TestClient_Fetch(t *testing.T) {
	c := newTestServer(t, `{"quotes":[
		{"symbol":"AAPL","name":"Apple Inc","price":231.5,"currency":"USD"},
		{"symbol":"MSFT","price":420.0,"currency":"USD"}
	]}`)

	got, err := c.Fetch(context.Background(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d quotes, want 2", len(got))
	}
	aapl := got["AAPL"]
	if !aapl.Price.Equal(finbook.M(231.5, "USD")) {
		t.Errorf("AAPL price = %s", aapl.Price)
	}
	if aapl.Name != "Apple Inc" {
		t.Errorf("AAPL name = %q", aapl.Name)
	}
}

func TestClient_FetchNormalizesGBX(t *testing.T) {
	c := newTestServer(t, `{"quotes":[
		{"symbol":"VOD.L","name":"Vodafone","price":7250.0,"currency":"GBX"}
	]}`)

	got, err := c.Fetch(context.Background(), []string{"VOD.L"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	// 7250 pence is 72.50 pounds.
	if !got["VOD.L"].Price.Equal(finbook.M(72.5, "GBP")) {
		t.Errorf("VOD.L price = %s, want £72.50", got["VOD.L"].Price)
	}
}

func TestClient_FetchDropsBadQuotes(t *testing.T) {
	c := newTestServer(t, `{"quotes":[
		{"symbol":"AAPL","price":231.5,"currency":"USD"},
		{"symbol":"BAD","price":"n/a","currency":"USD"},
		{"price":12.0,"currency":"USD"}
	]}`)

	got, err := c.Fetch(context.Background(), []string{"AAPL", "BAD"})
	if err != nil {
		t.Fatalf("a bad quote in the batch must not fail the fetch: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d quotes, want just AAPL", len(got))
	}
}

func TestClient_FetchEmptyKeys(t *testing.T) {
	c := New("secret")
	got, err := c.Fetch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d quotes, want none without keys", len(got))
	}
}

func TestClient_FetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	c := New("secret")
	c.BaseURL = server.URL

	if _, err := c.Fetch(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatal("expected an error on a 500 response")
	}
}
