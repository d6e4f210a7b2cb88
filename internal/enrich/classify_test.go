package enrich_test

import (
	"testing"

	"partscout/internal/enrich"
	"partscout/internal/paapi"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	items := []paapi.Item{
		{ASIN: "B0GASKET01", Title: "GE Refrigerator Door Gasket"},
		{ASIN: "B000AST3AK", Title: "GE MWF Refrigerator Water Filter"},
		{ASIN: "B01MRVM2Y9", Title: "GE XWFE Replacement Water Filter"},
	}
	outcome := enrich.Classify(items, true)
	if outcome.Status != enrich.StatusFound {
		t.Fatalf("expected found, got %q (%s)", outcome.Status, outcome.Message)
	}
	if outcome.Item.ASIN != "B000AST3AK" {
		t.Errorf("expected first matching item, got %#v", outcome.Item)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	items := []paapi.Item{{ASIN: "B000AST3AK", Title: "GE MWF WATER Filter Cartridge"}}
	outcome := enrich.Classify(items, true)
	if outcome.Status != enrich.StatusFound {
		t.Fatalf("expected found, got %q", outcome.Status)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	items := []paapi.Item{
		{ASIN: "B0GASKET01", Title: "GE Refrigerator Door Gasket"},
		{ASIN: "B0BULB0001", Title: "Appliance Light Bulb 40W"},
	}
	outcome := enrich.Classify(items, true)
	if outcome.Status != enrich.StatusNoMatch {
		t.Fatalf("expected no_match, got %q", outcome.Status)
	}
	if outcome.Message == "" {
		t.Error("expected explanatory message for no_match")
	}
}

func TestClassifyEmptyResults(t *testing.T) {
	outcome := enrich.Classify(nil, true)
	if outcome.Status != enrich.StatusNoMatch {
		t.Fatalf("expected no_match for empty results, got %q", outcome.Status)
	}
}

func TestClassifyMissingASIN(t *testing.T) {
	items := []paapi.Item{{Title: "Samsung HAF-QIN Water Filter"}}
	outcome := enrich.Classify(items, true)
	if outcome.Status != enrich.StatusMissingASIN {
		t.Fatalf("expected missing_asin, got %q", outcome.Status)
	}
}

func TestClassifyWithoutFilterRequirement(t *testing.T) {
	items := []paapi.Item{
		{ASIN: "B0GASKET01", Title: "GE Refrigerator Door Gasket"},
		{ASIN: "B000AST3AK", Title: "GE MWF Refrigerator Water Filter"},
	}
	outcome := enrich.Classify(items, false)
	if outcome.Status != enrich.StatusFound {
		t.Fatalf("expected found, got %q", outcome.Status)
	}
	if outcome.Item.ASIN != "B0GASKET01" {
		t.Errorf("expected first result regardless of title, got %#v", outcome.Item)
	}
}

func TestSearchKeywords(t *testing.T) {
	if got := enrich.SearchKeywords("GSS25GSHSS"); got != "GSS25GSHSS water filter" {
		t.Fatalf("unexpected keywords %q", got)
	}
}

func TestPurchaseURL(t *testing.T) {
	tests := []struct {
		name string
		item paapi.Item
		want string
	}{
		{
			name: "amazon url without tag",
			item: paapi.Item{ASIN: "B000AST3AK", DetailURL: "https://www.amazon.com/dp/B000AST3AK"},
			want: "https://www.amazon.com/dp/B000AST3AK?tag=test-20",
		},
		{
			name: "amazon url with existing query",
			item: paapi.Item{ASIN: "B000AST3AK", DetailURL: "https://www.amazon.com/dp/B000AST3AK?th=1"},
			want: "https://www.amazon.com/dp/B000AST3AK?th=1&tag=test-20",
		},
		{
			name: "amazon url with tag already",
			item: paapi.Item{ASIN: "B000AST3AK", DetailURL: "https://www.amazon.com/dp/B000AST3AK?tag=other-21"},
			want: "https://www.amazon.com/dp/B000AST3AK?tag=other-21",
		},
		{
			name: "non-amazon url passes through untouched",
			item: paapi.Item{ASIN: "B000AST3AK", DetailURL: "https://example.com/item"},
			want: "https://example.com/item",
		},
		{
			name: "missing detail url",
			item: paapi.Item{ASIN: "B000AST3AK"},
			want: "https://www.amazon.com/dp/B000AST3AK?tag=test-20",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := enrich.PurchaseURL(tt.item, "test-20"); got != tt.want {
				t.Fatalf("PurchaseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkNote(t *testing.T) {
	if got := enrich.LinkNote("GSS25GSHSS"); got != "Auto-added from Amazon search for model GSS25GSHSS." {
		t.Fatalf("unexpected note %q", got)
	}
}
