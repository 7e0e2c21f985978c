package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cverdb/cverdb/internal/log"
	"github.com/cverdb/cverdb/pkg/cvedb"
)

// integrity check
var _ cvedb.Store = (*Store)(nil)

// Store holds an instance of the database connection.
type Store struct {
	db *gorm.DB
}

// CleanupFn is a callback for closing a DB connection.
type CleanupFn func() error

// New creates a new instance of the store at the given path, provisioning the schema if
// it is not already present. An empty path yields an in-memory database. Provisioning is
// idempotent: opening an already-provisioned file changes nothing.
func New(path string, overwrite bool) (*Store, CleanupFn, error) {
	dbObj, err := open(config{
		path:      path,
		overwrite: overwrite,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := dbObj.AutoMigrate(models()...); err != nil {
		return nil, nil, fmt.Errorf("unable to migrate: %w", err)
	}

	cleanupFn := func() error {
		sqlDB, err := dbObj.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &Store{
		db: dbObj,
	}, cleanupFn, nil
}

// resolveVendor maps a vendor name to its surrogate id, creating the row on first
// sight. A lost get-or-create race surfaces as a unique-constraint failure, in which
// case the now-existing row is re-read instead of failing the import.
func (s *Store) resolveVendor(tx *gorm.DB, name string) (int64, error) {
	m := vendorModel{Name: name}
	if err := tx.Where(vendorModel{Name: name}).FirstOrCreate(&m).Error; err != nil {
		var existing vendorModel
		if rerr := tx.Where("name = ?", name).First(&existing).Error; rerr == nil {
			return existing.ID, nil
		}
		return 0, fmt.Errorf("unable to resolve vendor %q: %w", name, err)
	}
	return m.ID, nil
}

func (s *Store) resolveProduct(tx *gorm.DB, vendorID int64, name string) (int64, error) {
	m := productModel{VendorID: vendorID, Name: name}
	if err := tx.Where(productModel{VendorID: vendorID, Name: name}).FirstOrCreate(&m).Error; err != nil {
		var existing productModel
		if rerr := tx.Where("vendor_id = ? AND name = ?", vendorID, name).First(&existing).Error; rerr == nil {
			return existing.ID, nil
		}
		return 0, fmt.Errorf("unable to resolve product %q (vendor id %d): %w", name, vendorID, err)
	}
	return m.ID, nil
}

// ImportNewOnly saves records into the store with insert-or-ignore semantics on the
// record row: core fields of an already-present cve_id are left untouched. Product
// links and reference rows are populated for every input record regardless, so
// re-importing the same document appends duplicate reference rows (links are absorbed
// by the pair's primary key). The whole batch runs in one transaction.
func (s *Store) ImportNewOnly(records []cvedb.Record) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if record.CVEID == "" {
				return fmt.Errorf("unable to import record without a cve_id")
			}

			m := newCVEModel(record)
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "cve_id"}},
				DoNothing: true,
			}).Create(&m)
			if result.Error != nil {
				return fmt.Errorf("unable to add record %q: %w", record.CVEID, result.Error)
			}

			// the insert may have been a no-op, so the surrogate id must be re-read
			var row cveModel
			if err := tx.Where("cve_id = ?", record.CVEID).First(&row).Error; err != nil {
				return fmt.Errorf("unable to fetch record %q: %w", record.CVEID, err)
			}

			for _, p := range record.Products {
				vendorID, err := s.resolveVendor(tx, p.Vendor)
				if err != nil {
					return err
				}
				productID, err := s.resolveProduct(tx, vendorID, p.Product)
				if err != nil {
					return err
				}

				link := cveProductModel{CVEID: row.ID, ProductID: productID}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
					return fmt.Errorf("unable to link record %q to product %q: %w", record.CVEID, p.Product, err)
				}
			}

			for _, url := range record.References {
				ref := referenceModel{CVEID: row.ID, URL: url}
				if err := tx.Create(&ref).Error; err != nil {
					return fmt.Errorf("unable to add reference for record %q: %w", record.CVEID, err)
				}
			}
		}
		return nil
	})
}

// mutable columns overwritten by UpsertAll. Selecting them explicitly forces gorm to
// write zero values (NULLs) through instead of skipping them.
var upsertColumns = []string{"identifier", "description", "year", "cvss", "published", "last_modified", "status"}

// UpsertAll inserts records with unknown cve_ids and fully replaces the mutable fields
// of known ones, including overwriting with NULL when the input carries no value.
// Products, links, and references are not touched.
func (s *Store) UpsertAll(records []cvedb.Record) (cvedb.UpsertSummary, error) {
	var summary cvedb.UpsertSummary

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if record.CVEID == "" {
				return fmt.Errorf("unable to upsert record without a cve_id")
			}

			var existing cveModel
			err := tx.Where("cve_id = ?", record.CVEID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				m := newCVEModel(record)
				if err := tx.Create(&m).Error; err != nil {
					return fmt.Errorf("unable to add record %q: %w", record.CVEID, err)
				}
				summary.Inserted++
			case err != nil:
				return fmt.Errorf("unable to fetch record %q: %w", record.CVEID, err)
			default:
				m := newCVEModel(record)
				result := tx.Model(&cveModel{}).Where("id = ?", existing.ID).Select(upsertColumns).Updates(&m)
				if result.Error != nil {
					return fmt.Errorf("unable to update record %q: %w", record.CVEID, result.Error)
				}
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return cvedb.UpsertSummary{}, err
	}

	return summary, nil
}

// GetRecord retrieves the full record for a CVE ID with its joined vendor/product pairs
// and reference URLs. Returns (nil, nil) when no record matches.
func (s *Store) GetRecord(cveID string) (*cvedb.Record, error) {
	log.WithFields("cve", cveID).Trace("fetching record")

	var m cveModel
	if err := s.db.Where("cve_id = ?", cveID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to fetch record %q: %w", cveID, err)
	}

	record := m.Inflate()

	var pairs []cvedb.ProductRef
	err := s.db.Table("products").
		Select("vendors.name AS vendor, products.name AS product").
		Joins("JOIN vendors ON products.vendor_id = vendors.id").
		Joins("JOIN cve_product ON cve_product.product_id = products.id").
		Where("cve_product.cve_id = ?", m.ID).
		Scan(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("unable to fetch products for record %q: %w", cveID, err)
	}
	record.Products = pairs

	var urls []string
	err = s.db.Model(&referenceModel{}).
		Where("cve_id = ?", m.ID).
		Pluck("url", &urls).Error
	if err != nil {
		return nil, fmt.Errorf("unable to fetch references for record %q: %w", cveID, err)
	}
	record.References = urls

	return &record, nil
}

// RecordsByYear lists records with an exact year match ordered by CVSS descending.
// Null-cvss ordering is not overridden here: sqlite sorts NULL below every numeric
// value, so such rows land at the end of a descending sort.
func (s *Store) RecordsByYear(year int) ([]cvedb.YearSummary, error) {
	var rows []cveModel
	if err := s.db.Where("year = ?", year).Order("cvss DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("unable to fetch records for year %d: %w", year, err)
	}

	summaries := make([]cvedb.YearSummary, len(rows))
	for idx, row := range rows {
		summaries[idx] = cvedb.YearSummary{
			CVEID:       row.CVEID,
			Description: row.Description,
			CVSS:        row.CVSS,
		}
	}
	return summaries, nil
}

// Page returns a window of records ordered by published date. Null published dates sort
// after all non-null values in both directions (an explicit cross-engine choice, not
// sqlite's native null ordering). Results can shift between pages if records are
// imported in the meantime; offset pagination makes no stronger guarantee.
func (s *Store) Page(limit, offset int, dir cvedb.SortDirection) ([]cvedb.PageRow, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit and offset must be non-negative (limit=%d offset=%d)", limit, offset)
	}

	order := "CASE WHEN published IS NULL THEN 1 ELSE 0 END, published ASC"
	if dir == cvedb.SortDescending {
		order = "CASE WHEN published IS NULL THEN 1 ELSE 0 END, published DESC"
	}

	var rows []cveModel
	if err := s.db.Order(order).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("unable to fetch record page: %w", err)
	}

	page := make([]cvedb.PageRow, len(rows))
	for idx, row := range rows {
		page[idx] = cvedb.PageRow{
			CVEID:        row.CVEID,
			Identifier:   row.Identifier,
			Published:    row.Published,
			LastModified: row.LastModified,
			Status:       row.Status,
		}
	}
	return page, nil
}

// TotalCount returns the total number of records.
func (s *Store) TotalCount() (int64, error) {
	var count int64
	if err := s.db.Model(&cveModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("unable to count records: %w", err)
	}
	return count, nil
}

// Counts returns table-level totals for records, vendors, and products.
func (s *Store) Counts() (cvedb.Counts, error) {
	var counts cvedb.Counts
	if err := s.db.Model(&cveModel{}).Count(&counts.Records).Error; err != nil {
		return cvedb.Counts{}, fmt.Errorf("unable to count records: %w", err)
	}
	if err := s.db.Model(&vendorModel{}).Count(&counts.Vendors).Error; err != nil {
		return cvedb.Counts{}, fmt.Errorf("unable to count vendors: %w", err)
	}
	if err := s.db.Model(&productModel{}).Count(&counts.Products).Error; err != nil {
		return cvedb.Counts{}, fmt.Errorf("unable to count products: %w", err)
	}
	return counts, nil
}

// TopVendors returns vendors ordered by the number of record-product links attributed
// to them, descending, ties broken by vendor id for a stable result.
func (s *Store) TopVendors(limit int) ([]cvedb.VendorCount, error) {
	var rows []cvedb.VendorCount
	err := s.db.Table("vendors").
		Select("vendors.name AS vendor, COUNT(*) AS count").
		Joins("JOIN products ON products.vendor_id = vendors.id").
		Joins("JOIN cve_product ON cve_product.product_id = products.id").
		Group("vendors.id").
		Order("count DESC, vendors.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("unable to fetch top vendors: %w", err)
	}
	return rows, nil
}
