package enrich

import (
	"fmt"
	"strings"

	"partscout/internal/paapi"
)

// Status values recorded in the progress ledger for each processed model.
const (
	StatusFound       = "found"
	StatusNoMatch     = "no_match"
	StatusMissingASIN = "missing_asin"
	StatusError       = "error"
)

// Outcome is the classified result of one model's search.
type Outcome struct {
	Status  string
	Item    paapi.Item
	Message string
}

// Classify picks the first search result whose title reads as a water
// filter. Results are considered in response order; with requireFilterMatch
// off the first result wins regardless of its title.
func Classify(items []paapi.Item, requireFilterMatch bool) Outcome {
	var pick *paapi.Item
	for i := range items {
		if !requireFilterMatch || isWaterFilterTitle(items[i].Title) {
			pick = &items[i]
			break
		}
	}
	if pick == nil {
		return Outcome{
			Status:  StatusNoMatch,
			Message: fmt.Sprintf("no water filter match in %d results", len(items)),
		}
	}
	if strings.TrimSpace(pick.ASIN) == "" {
		return Outcome{
			Status:  StatusMissingASIN,
			Item:    *pick,
			Message: "matched item has no ASIN",
		}
	}
	return Outcome{Status: StatusFound, Item: *pick}
}

func isWaterFilterTitle(title string) bool {
	title = strings.ToLower(title)
	return strings.Contains(title, "water") && strings.Contains(title, "filter")
}

// SearchKeywords builds the query sent to Amazon for a model number.
func SearchKeywords(modelNumber string) string {
	return modelNumber + " water filter"
}

// PurchaseURL derives the affiliate link for a matched item. Amazon detail
// URLs get the partner tag appended when absent; non-Amazon URLs pass
// through untouched; a missing URL falls back to a canonical dp link built
// from the ASIN.
func PurchaseURL(item paapi.Item, partnerTag string) string {
	detail := strings.TrimSpace(item.DetailURL)
	if detail == "" {
		return fmt.Sprintf("https://www.amazon.com/dp/%s?tag=%s", item.ASIN, partnerTag)
	}
	if !strings.Contains(detail, "amazon.") {
		return detail
	}
	if strings.Contains(detail, "tag=") {
		return detail
	}
	sep := "?"
	if strings.Contains(detail, "?") {
		sep = "&"
	}
	return detail + sep + "tag=" + partnerTag
}

// LinkNote is the provenance note stored with an auto-linked consumable.
func LinkNote(modelNumber string) string {
	return fmt.Sprintf("Auto-added from Amazon search for model %s.", modelNumber)
}
