package unmarshal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/cverdb/cverdb/pkg/cvedb"
)

var (
	// ErrInvalidDocument indicates the input is not a JSON array of record objects.
	ErrInvalidDocument = errors.New("document is not a JSON array of records")

	// ErrMissingCVEID indicates a record object with a null or absent cve_id. Such a
	// record could never be looked up after import, so it fails validation instead of
	// being silently skipped.
	ErrMissingCVEID = errors.New("record has no cve_id")
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// recordDocument is the wire shape of a single imported object. cve_id is a pointer so
// that "absent" and "null" can both be rejected explicitly.
type recordDocument struct {
	CVEID        *string  `json:"cve_id"`
	Identifier   *string  `json:"identifier"`
	Description  *string  `json:"description"`
	Year         *int     `json:"year"`
	CVSS         *float64 `json:"cvss"`
	Published    *string  `json:"published"`
	LastModified *string  `json:"last_modified"`
	Status       *string  `json:"status"`
	Products     []struct {
		Vendor  string `json:"vendor"`
		Product string `json:"product"`
	} `json:"products"`
	References []string `json:"references"`
}

// Records decodes an import document: a JSON array of record objects, optionally
// prefixed with a UTF-8 byte order mark. Validation failures cover the whole document;
// no partial result is returned.
func Records(reader io.Reader) ([]cvedb.Record, error) {
	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}

	// some editors and exporters prefix JSON files with a BOM
	contents = bytes.TrimPrefix(contents, utf8BOM)

	var documents []recordDocument
	if err := json.Unmarshal(contents, &documents); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}

	var validationErrs error
	records := make([]cvedb.Record, 0, len(documents))
	for idx, doc := range documents {
		if doc.CVEID == nil || *doc.CVEID == "" {
			validationErrs = multierror.Append(validationErrs, fmt.Errorf("record %d: %w", idx, ErrMissingCVEID))
			continue
		}
		records = append(records, inflate(doc))
	}
	if validationErrs != nil {
		return nil, validationErrs
	}

	return records, nil
}

func inflate(doc recordDocument) cvedb.Record {
	record := cvedb.Record{
		CVEID:        *doc.CVEID,
		Identifier:   doc.Identifier,
		Description:  doc.Description,
		Year:         doc.Year,
		CVSS:         doc.CVSS,
		Published:    doc.Published,
		LastModified: doc.LastModified,
		Status:       doc.Status,
		References:   doc.References,
	}
	for _, p := range doc.Products {
		record.Products = append(record.Products, cvedb.ProductRef{
			Vendor:  p.Vendor,
			Product: p.Product,
		})
	}
	return record
}
