package cvedb

// Record is a single vulnerability-disclosure entry. CVEID is the natural key used for
// idempotent import; every other field is optional and may be absent in the source
// document (carried as nil).
type Record struct {
	CVEID        string       `json:"cve_id"`
	Identifier   *string      `json:"identifier"`
	Description  *string      `json:"description"`
	Year         *int         `json:"year"`
	CVSS         *float64     `json:"cvss"`
	Published    *string      `json:"published"`
	LastModified *string      `json:"last_modified"`
	Status       *string      `json:"status"`
	Products     []ProductRef `json:"products"`
	References   []string     `json:"references"`
}

// ProductRef names a product by its owning vendor. Pairs are globally unique in the
// store; records reference them many-to-many.
type ProductRef struct {
	Vendor  string `json:"vendor"`
	Product string `json:"product"`
}

// YearSummary is a row from the by-year listing.
type YearSummary struct {
	CVEID       string   `json:"cve_id"`
	Description *string  `json:"description"`
	CVSS        *float64 `json:"cvss"`
}

// PageRow is a row from the paginated listing (the fields the list view renders).
type PageRow struct {
	CVEID        string  `json:"cve_id"`
	Identifier   *string `json:"identifier"`
	Published    *string `json:"published"`
	LastModified *string `json:"last_modified"`
	Status       *string `json:"status"`
}

// VendorCount is a row from the top-vendors aggregation: the number of record-product
// links attributed to a single vendor.
type VendorCount struct {
	Vendor string `json:"vendor"`
	Count  int64  `json:"count"`
}

// Counts holds simple table-level totals.
type Counts struct {
	Records  int64 `json:"records"`
	Vendors  int64 `json:"vendors"`
	Products int64 `json:"products"`
}

// UpsertSummary reports how many records an upsert batch created vs. overwrote.
type UpsertSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}
