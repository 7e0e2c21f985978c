package cvedb

// SortDirection selects the published-date ordering for the paginated listing.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ColumnStatus is the per-column outcome of an additive schema migration.
type ColumnStatus string

const (
	ColumnAdded   ColumnStatus = "added"
	ColumnPresent ColumnStatus = "present"
	ColumnFailed  ColumnStatus = "failed"
)

// ColumnOutcome reports what happened to a single column during EnsureColumns. A failed
// column never aborts the remaining columns.
type ColumnOutcome struct {
	Column string
	Status ColumnStatus
	Err    error
}

type StoreReader interface {
	// GetRecord returns the full record with joined vendor/product pairs and reference
	// URLs, or (nil, nil) when no record matches the given CVE ID.
	GetRecord(cveID string) (*Record, error)
	RecordsByYear(year int) ([]YearSummary, error)
	Page(limit, offset int, dir SortDirection) ([]PageRow, error)
	TotalCount() (int64, error)
	Counts() (Counts, error)
	TopVendors(limit int) ([]VendorCount, error)
}

type StoreWriter interface {
	// ImportNewOnly inserts records that are not yet present (existing rows are left
	// untouched) and always populates product links and reference rows for every input
	// record. The whole batch is atomic.
	ImportNewOnly(records []Record) error
	// UpsertAll overwrites every mutable field of existing records (including writing
	// NULLs) and inserts the rest. Products, links, and references are not touched.
	UpsertAll(records []Record) (UpsertSummary, error)
	// EnsureColumns adds any missing optional columns to the record table, reporting a
	// per-column outcome instead of failing the operation.
	EnsureColumns() []ColumnOutcome
}

type Store interface {
	StoreReader
	StoreWriter
}
