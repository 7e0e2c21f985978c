package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cverdb/cverdb/pkg/cvedb"
)

func setupTestStore(t testing.TB) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, cleanup, err := New(path, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, cleanup())
	})

	return store
}

func ptr[T any](v T) *T {
	return &v
}

// exampleRecords is the two-record document from the import format documentation.
func exampleRecords() []cvedb.Record {
	return []cvedb.Record{
		{
			CVEID: "CVE-2021-0001",
			Year:  ptr(2021),
			CVSS:  ptr(9.8),
			Products: []cvedb.ProductRef{
				{Vendor: "ExampleCorp", Product: "WidgetA"},
			},
		},
		{
			CVEID: "CVE-2021-0002",
			Year:  ptr(2021),
			CVSS:  ptr(7.1),
			Products: []cvedb.ProductRef{
				{Vendor: "ExampleCorp", Product: "WidgetB"},
			},
		},
	}
}

func TestNew_ProvisionIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, cleanup, err := New(path, false)
	require.NoError(t, err)
	require.NoError(t, store.ImportNewOnly(exampleRecords()))
	require.NoError(t, cleanup())

	// reopening an already-provisioned file must not fail or lose data
	store, cleanup, err = New(path, false)
	require.NoError(t, err)
	defer cleanup()

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, cvedb.Counts{Records: 2, Vendors: 1, Products: 2}, counts)
}

func TestImportNewOnly_Rerun(t *testing.T) {
	store := setupTestStore(t)

	records := exampleRecords()
	records[0].Description = ptr("original description")
	records[0].References = []string{"https://example.com/adv/1", "https://example.com/adv/2"}

	require.NoError(t, store.ImportNewOnly(records))

	// second import: core fields are first-seen-wins, side tables are re-populated
	rerun := exampleRecords()
	rerun[0].Description = ptr("a different description")
	rerun[0].References = []string{"https://example.com/adv/1", "https://example.com/adv/2"}

	require.NoError(t, store.ImportNewOnly(rerun))

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, cvedb.Counts{Records: 2, Vendors: 1, Products: 2}, counts)

	record, err := store.GetRecord("CVE-2021-0001")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Description)
	assert.Equal(t, "original description", *record.Description)

	// reference rows are appended unconditionally on every run (intentional quirk:
	// re-importing the same document doubles them)
	var refCount int64
	require.NoError(t, store.db.Model(&referenceModel{}).Count(&refCount).Error)
	assert.Equal(t, int64(4), refCount)

	// link inserts are absorbed by the composite primary key
	var linkCount int64
	require.NoError(t, store.db.Model(&cveProductModel{}).Count(&linkCount).Error)
	assert.Equal(t, int64(2), linkCount)
}

func TestImportNewOnly_RequiresCVEID(t *testing.T) {
	store := setupTestStore(t)

	err := store.ImportNewOnly([]cvedb.Record{{Year: ptr(2021)}})
	require.Error(t, err)

	// the failed batch must not leave partial writes behind
	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, cvedb.Counts{}, counts)
}

func TestImportNewOnly_AtomicOnFailure(t *testing.T) {
	store := setupTestStore(t)

	records := append(exampleRecords(), cvedb.Record{}) // last record is invalid
	require.Error(t, store.ImportNewOnly(records))

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, cvedb.Counts{}, counts, "a failing record must roll back the whole batch")
}

func TestUpsertAll(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.ImportNewOnly(exampleRecords()))

	summary, err := store.UpsertAll([]cvedb.Record{
		{
			// existing: every mutable field is replaced, including nil-ing values
			CVEID:  "CVE-2021-0001",
			Year:   ptr(2022),
			Status: ptr("analyzed"),
			// CVSS and Description intentionally absent
		},
		{
			CVEID: "CVE-2022-1111",
			Year:  ptr(2022),
			CVSS:  ptr(5.0),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, cvedb.UpsertSummary{Inserted: 1, Updated: 1}, summary)

	record, err := store.GetRecord("CVE-2021-0001")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Year)
	assert.Equal(t, 2022, *record.Year)
	require.NotNil(t, record.Status)
	assert.Equal(t, "analyzed", *record.Status)
	assert.Nil(t, record.CVSS, "absent input values overwrite with NULL")
	assert.Nil(t, record.Description)

	// products and references are never touched by upsert
	assert.Equal(t, []cvedb.ProductRef{{Vendor: "ExampleCorp", Product: "WidgetA"}}, record.Products)

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Records)
}

func TestRecordsByYear(t *testing.T) {
	store := setupTestStore(t)

	records := exampleRecords()
	records = append(records, cvedb.Record{
		CVEID: "CVE-2021-0003",
		Year:  ptr(2021),
		// no cvss
	}, cvedb.Record{
		CVEID: "CVE-2020-9999",
		Year:  ptr(2020),
		CVSS:  ptr(10.0),
	})
	require.NoError(t, store.ImportNewOnly(records))

	summaries, err := store.RecordsByYear(2021)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "CVE-2021-0001", summaries[0].CVEID)
	assert.Equal(t, "CVE-2021-0002", summaries[1].CVEID)

	// sqlite sorts NULL below every numeric value, so a missing cvss lands last in a
	// descending sort
	assert.Equal(t, "CVE-2021-0003", summaries[2].CVEID)
	assert.Nil(t, summaries[2].CVSS)
}

func pageRecords() []cvedb.Record {
	return []cvedb.Record{
		{CVEID: "CVE-2021-0001", Published: ptr("2021-01-01T00:00:00Z")},
		{CVEID: "CVE-2021-0002", Published: ptr("2021-06-01T00:00:00Z")},
		{CVEID: "CVE-2021-0003", Published: ptr("2021-12-01T00:00:00Z")},
		{CVEID: "CVE-2021-0004"}, // no published date
	}
}

func TestPage_NullPublishedSortsLast(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.ImportNewOnly(pageRecords()))

	tests := []struct {
		name     string
		dir      cvedb.SortDirection
		expected []string
	}{
		{
			name:     "descending",
			dir:      cvedb.SortDescending,
			expected: []string{"CVE-2021-0003", "CVE-2021-0002", "CVE-2021-0001", "CVE-2021-0004"},
		},
		{
			name:     "ascending",
			dir:      cvedb.SortAscending,
			expected: []string{"CVE-2021-0001", "CVE-2021-0002", "CVE-2021-0003", "CVE-2021-0004"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.Page(10, 0, tt.dir)
			require.NoError(t, err)

			var ids []string
			for _, row := range rows {
				ids = append(ids, row.CVEID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestPage_PartitionsWithoutOverlap(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.ImportNewOnly(pageRecords()))

	total, err := store.TotalCount()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	first, err := store.Page(2, 0, cvedb.SortAscending)
	require.NoError(t, err)
	second, err := store.Page(2, 2, cvedb.SortAscending)
	require.NoError(t, err)

	var ids []string
	for _, row := range append(first, second...) {
		ids = append(ids, row.CVEID)
	}
	assert.ElementsMatch(t, []string{"CVE-2021-0001", "CVE-2021-0002", "CVE-2021-0003", "CVE-2021-0004"}, ids)
}

func TestPage_RejectsNegativeWindow(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Page(-1, 0, cvedb.SortDescending)
	require.Error(t, err)

	_, err = store.Page(10, -1, cvedb.SortDescending)
	require.Error(t, err)
}

func TestGetRecord(t *testing.T) {
	store := setupTestStore(t)

	// not-found is an expected outcome, not an error
	record, err := store.GetRecord("CVE-9999-9999")
	require.NoError(t, err)
	assert.Nil(t, record)

	records := exampleRecords()
	records[0].Description = ptr("remote code execution in widget parser")
	records[0].References = []string{"https://example.com/adv/1", "https://example.com/adv/1"}
	require.NoError(t, store.ImportNewOnly(records))

	record, err = store.GetRecord("CVE-2021-0001")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "CVE-2021-0001", record.CVEID)
	require.NotNil(t, record.Description)
	assert.Equal(t, "remote code execution in widget parser", *record.Description)
	assert.Equal(t, []cvedb.ProductRef{{Vendor: "ExampleCorp", Product: "WidgetA"}}, record.Products)

	// duplicate reference URLs are preserved as-is
	assert.Equal(t, []string{"https://example.com/adv/1", "https://example.com/adv/1"}, record.References)
}

func TestTopVendors(t *testing.T) {
	store := setupTestStore(t)

	records := exampleRecords()
	records = append(records, cvedb.Record{
		CVEID: "CVE-2021-0010",
		Year:  ptr(2021),
		Products: []cvedb.ProductRef{
			{Vendor: "OtherVendor", Product: "Gadget"},
		},
	})
	require.NoError(t, store.ImportNewOnly(records))

	vendors, err := store.TopVendors(10)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, cvedb.VendorCount{Vendor: "ExampleCorp", Count: 2}, vendors[0])
	assert.Equal(t, cvedb.VendorCount{Vendor: "OtherVendor", Count: 1}, vendors[1])

	// truncation
	vendors, err = store.TopVendors(1)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "ExampleCorp", vendors[0].Vendor)
}

func TestCounts(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.ImportNewOnly(exampleRecords()))

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, cvedb.Counts{Records: 2, Vendors: 1, Products: 2}, counts)
}
