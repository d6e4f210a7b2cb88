package paapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"partscout/internal/paapi"
	"partscout/internal/testsupport"
)

func TestSearchDecodesItems(t *testing.T) {
	var captured struct {
		path    string
		body    map[string]any
		headers http.Header
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "SearchResult": {
                "Items": [
                    {
                        "ASIN": "B000AST3AK",
                        "DetailPageURL": "https://www.amazon.com/dp/B000AST3AK",
                        "ItemInfo": {"Title": {"DisplayValue": "GE MWF Water Filter"}}
                    },
                    {
                        "ASIN": "B01MRVM2Y9",
                        "DetailPageURL": "https://www.amazon.com/dp/B01MRVM2Y9",
                        "ItemInfo": {"Title": {"DisplayValue": "GE XWFE Water Filter"}}
                    }
                ]
            }
        }`))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	client := paapi.NewClient(cfg, paapi.WithBaseURL(server.URL), paapi.WithHTTPClient(server.Client()))

	items, err := client.Search(context.Background(), "GSS25GSHSS water filter")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %#v", items)
	}
	if items[0].ASIN != "B000AST3AK" || items[0].Title != "GE MWF Water Filter" {
		t.Errorf("unexpected first item: %#v", items[0])
	}
	if items[1].DetailURL != "https://www.amazon.com/dp/B01MRVM2Y9" {
		t.Errorf("unexpected second item: %#v", items[1])
	}

	if captured.path != "/paapi5/searchitems" {
		t.Errorf("unexpected request path %q", captured.path)
	}
	if got := captured.body["Keywords"]; got != "GSS25GSHSS water filter" {
		t.Errorf("unexpected Keywords %v", got)
	}
	if got := captured.body["PartnerType"]; got != "Associates" {
		t.Errorf("unexpected PartnerType %v", got)
	}
	if got := captured.body["PartnerTag"]; got != cfg.Amazon.PartnerTag {
		t.Errorf("unexpected PartnerTag %v", got)
	}
	if got := captured.body["ItemCount"]; got != float64(cfg.Enrich.ItemCount) {
		t.Errorf("unexpected ItemCount %v", got)
	}
	auth := captured.headers.Get("Authorization")
	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential="+cfg.Amazon.AccessKey+"/") {
		t.Errorf("unexpected Authorization header %q", auth)
	}
	if got := captured.headers.Get("X-Amz-Target"); !strings.HasSuffix(got, ".SearchItems") {
		t.Errorf("unexpected X-Amz-Target %q", got)
	}
	if got := captured.headers.Get("Content-Encoding"); got != "amz-1.0" {
		t.Errorf("unexpected Content-Encoding %q", got)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := paapi.NewClient(testsupport.NewConfig(t),
		paapi.WithBaseURL(server.URL), paapi.WithHTTPClient(server.Client()))
	items, err := client.Search(context.Background(), "NOHIT water filter")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %#v", items)
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Errors":[{"Code":"TooManyRequests"}]}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := paapi.NewClient(testsupport.NewConfig(t),
		paapi.WithBaseURL(server.URL), paapi.WithHTTPClient(server.Client()))
	_, err := client.Search(context.Background(), "GSS25GSHSS water filter")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestSearchErrorsPayloadIsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Errors":[{"Code":"NoResults","Message":"The request produced no results."}]}`))
	}))
	defer server.Close()

	client := paapi.NewClient(testsupport.NewConfig(t),
		paapi.WithBaseURL(server.URL), paapi.WithHTTPClient(server.Client()))
	items, err := client.Search(context.Background(), "NOHIT water filter")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result for Errors-only body, got %#v", items)
	}
}

func TestSearchMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := paapi.NewClient(testsupport.NewConfig(t),
		paapi.WithBaseURL(server.URL), paapi.WithHTTPClient(server.Client()))
	if _, err := client.Search(context.Background(), "GSS25GSHSS water filter"); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestSearchRequiresKeywords(t *testing.T) {
	client := paapi.NewClient(testsupport.NewConfig(t))
	if _, err := client.Search(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank keywords")
	}
}
