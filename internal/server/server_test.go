package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cverdb/cverdb/pkg/cvedb"
	"github.com/cverdb/cverdb/pkg/store/sqlite"
)

func ptr[T any](v T) *T {
	return &v
}

func setupTestServer(t *testing.T, records []cvedb.Record) http.Handler {
	t.Helper()

	store, cleanup, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, cleanup())
	})

	require.NoError(t, store.ImportNewOnly(records))

	return New(store).Handler()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestList(t *testing.T) {
	handler := setupTestServer(t, []cvedb.Record{
		{CVEID: "CVE-2021-0001", Published: ptr("2021-01-01T00:00:00Z")},
		{CVEID: "CVE-2021-0002", Published: ptr("2021-06-01T00:00:00Z")},
		{CVEID: "CVE-2021-0003", Published: ptr("2021-12-01T00:00:00Z")},
	})

	recorder := get(t, handler, "/cves/list?page=1&per_page=2")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Rows     []cvedb.PageRow `json:"rows"`
		Total    int64           `json:"total"`
		Page     int             `json:"page"`
		PerPage  int             `json:"per_page"`
		LastPage int             `json:"last_page"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, int64(3), response.Total)
	assert.Equal(t, 1, response.Page)
	assert.Equal(t, 2, response.PerPage)
	assert.Equal(t, 2, response.LastPage)
	require.Len(t, response.Rows, 2)

	// default sort is published descending
	assert.Equal(t, "CVE-2021-0003", response.Rows[0].CVEID)
	assert.Equal(t, "CVE-2021-0002", response.Rows[1].CVEID)
}

func TestList_MalformedParamsFallBackToDefaults(t *testing.T) {
	handler := setupTestServer(t, []cvedb.Record{
		{CVEID: "CVE-2021-0001"},
	})

	recorder := get(t, handler, "/cves/list?page=bogus&per_page=-3")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Page     int `json:"page"`
		PerPage  int `json:"per_page"`
		LastPage int `json:"last_page"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Page)
	assert.Equal(t, 10, response.PerPage)
	assert.Equal(t, 1, response.LastPage)
}

func TestList_EmptyStoreHasOnePage(t *testing.T) {
	handler := setupTestServer(t, nil)

	recorder := get(t, handler, "/cves/list")
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Total    int64 `json:"total"`
		LastPage int   `json:"last_page"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, int64(0), response.Total)
	assert.Equal(t, 1, response.LastPage)
}

func TestDetail(t *testing.T) {
	handler := setupTestServer(t, []cvedb.Record{
		{
			CVEID:       "CVE-2021-0001",
			Description: ptr("a description"),
			Products: []cvedb.ProductRef{
				{Vendor: "ExampleCorp", Product: "WidgetA"},
			},
			References: []string{"https://example.com/adv/1"},
		},
	})

	recorder := get(t, handler, "/cves/CVE-2021-0001")
	require.Equal(t, http.StatusOK, recorder.Code)

	var record cvedb.Record
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &record))
	assert.Equal(t, "CVE-2021-0001", record.CVEID)
	require.NotNil(t, record.Description)
	assert.Equal(t, "a description", *record.Description)
	assert.Equal(t, []cvedb.ProductRef{{Vendor: "ExampleCorp", Product: "WidgetA"}}, record.Products)
	assert.Equal(t, []string{"https://example.com/adv/1"}, record.References)
}

func TestDetail_NotFound(t *testing.T) {
	handler := setupTestServer(t, nil)

	recorder := get(t, handler, "/cves/CVE-9999-9999")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "CVE-9999-9999", response["cve_id"])
}

func TestCounts(t *testing.T) {
	handler := setupTestServer(t, []cvedb.Record{
		{
			CVEID: "CVE-2021-0001",
			Products: []cvedb.ProductRef{
				{Vendor: "ExampleCorp", Product: "WidgetA"},
				{Vendor: "ExampleCorp", Product: "WidgetB"},
			},
		},
	})

	recorder := get(t, handler, "/counts")
	require.Equal(t, http.StatusOK, recorder.Code)

	var counts cvedb.Counts
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &counts))
	assert.Equal(t, cvedb.Counts{Records: 1, Vendors: 1, Products: 2}, counts)
}
