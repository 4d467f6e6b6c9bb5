package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ahmedadelattya/ithaka-ai-demo/backend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTool(t *testing.T, handler http.HandlerFunc) *Tool {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := backend.NewClient(server.URL)

	return NewTool(client, 10, discardLogger())
}

func TestToolRunProjectsListings(t *testing.T) {
	var gotQuery url.Values

	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"listings":[
			{"title":"Pyramids Day Tour","slug":"pyramids-day-tour","min_price":45.5,
			 "description":"Full day in Giza","categories":[{"id":1,"name":"Historical"},{"id":2,"name":"Day Trips"}]},
			{"title":"Nile Dinner Cruise","slug":"nile-dinner-cruise","min_price":30,
			 "description":"Dinner on the Nile","categories":[{"id":3,"name":"Cruises"}]}
		]}}`))
	})

	result := tool.Run(context.Background(), `{"destination_ids":[3],"min_price":20,"max_price":50}`)

	if !result.Success {
		t.Fatalf("Run failed: %s", result.Error)
	}
	if len(result.Activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(result.Activities))
	}

	first := result.Activities[0]
	if first.Name != "Pyramids Day Tour" || first.Slug != "pyramids-day-tour" {
		t.Errorf("unexpected projection: %+v", first)
	}
	if first.Price != 45.5 {
		t.Errorf("price = %v, want backend min_price 45.5", first.Price)
	}
	if len(first.Categories) != 2 || first.Categories[0] != "Historical" {
		t.Errorf("categories = %v", first.Categories)
	}

	if got := gotQuery["destinations[]"]; len(got) != 1 || got[0] != "3" {
		t.Errorf("destinations[] = %v, want [3]", got)
	}
	if gotQuery.Get("min_price") != "20" || gotQuery.Get("max_price") != "50" {
		t.Errorf("price bounds = %q/%q", gotQuery.Get("min_price"), gotQuery.Get("max_price"))
	}
	if gotQuery.Get("per_page") != "10" {
		t.Errorf("per_page = %q, want 10", gotQuery.Get("per_page"))
	}
	for _, key := range []string{"search", "sort_by"} {
		if _, present := gotQuery[key]; present {
			t.Errorf("unexpected %q in query: %v", key, gotQuery)
		}
	}
}

func TestToolRunNormalizesSortPhrase(t *testing.T) {
	var gotQuery url.Values

	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data":{"listings":[]}}`))
	})

	result := tool.Run(context.Background(), `{"sort_by":"cheapest"}`)

	if !result.Success {
		t.Fatalf("Run failed: %s", result.Error)
	}
	if got := gotQuery.Get("sort_by"); got != SortPriceLowToHigh {
		t.Errorf("sort_by = %q, want %q", got, SortPriceLowToHigh)
	}
}

func TestToolRunOmitsUnrecognizedSort(t *testing.T) {
	var gotQuery url.Values

	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data":{"listings":[]}}`))
	})

	result := tool.Run(context.Background(), `{"sort_by":"banana"}`)

	if !result.Success {
		t.Fatalf("Run failed: %s", result.Error)
	}
	if _, present := gotQuery["sort_by"]; present {
		t.Errorf("unrecognized sort forwarded to backend: %v", gotQuery)
	}
}

func TestToolRunBackendErrorBecomesFailureResult(t *testing.T) {
	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	result := tool.Run(context.Background(), `{}`)

	if result.Success {
		t.Fatal("expected failure result for 500 backend")
	}
	if result.Error == "" {
		t.Error("failure result carries no error message")
	}
}

func TestToolRunMalformedBodyBecomesFailureResult(t *testing.T) {
	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":`))
	})

	result := tool.Run(context.Background(), `{}`)

	if result.Success {
		t.Fatal("expected failure result for malformed body")
	}
	if result.Error == "" {
		t.Error("failure result carries no error message")
	}
}

func TestToolRunBadArgumentsBecomeFailureResult(t *testing.T) {
	tool := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called for undecodable arguments")
	})

	result := tool.Run(context.Background(), `{"min_price": "twenty"}`)

	if result.Success {
		t.Fatal("expected failure result for bad arguments")
	}
}
