package catalog

// CandidateModel is a model selected for enrichment processing.
type CandidateModel struct {
	ID          int64
	ModelNumber string
	Brand       string
}

// Discovery describes a consumable found by the enrichment pipeline, ready to
// be linked to a model.
type Discovery struct {
	Title       string
	ASIN        string
	PurchaseURL string
	Note        string
}

// Consumable is the read model returned by catalog queries.
type Consumable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	SKU         string `json:"sku,omitempty"`
	Notes       string `json:"notes,omitempty"`
	PurchaseURL string `json:"purchase_url,omitempty"`
}

// Appliance groups a model with its consumables for query responses.
type Appliance struct {
	Model       string       `json:"model"`
	Brand       string       `json:"brand"`
	Category    string       `json:"category"`
	Consumables []Consumable `json:"consumables"`
}

// BrandGroup collects the appliances of one brand.
type BrandGroup struct {
	Brand      string      `json:"brand"`
	Appliances []Appliance `json:"appliances"`
}

// CategoryGroup collects the brands of one category.
type CategoryGroup struct {
	Category string       `json:"category"`
	Brands   []BrandGroup `json:"brands"`
}

// ImportStats summarizes a CSV import.
type ImportStats struct {
	RowsRead    int
	RowsSkipped int
	Models      int
	Consumables int
	Links       int
}
