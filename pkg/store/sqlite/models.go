package sqlite

import (
	"github.com/cverdb/cverdb/pkg/cvedb"
)

func models() []any {
	return []any{
		&vendorModel{},
		&productModel{},
		&cveModel{},
		&cveProductModel{},
		&referenceModel{},
	}
}

type vendorModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null;unique"`
}

func (vendorModel) TableName() string {
	return "vendors"
}

type productModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	VendorID int64  `gorm:"column:vendor_id;not null;index:idx_vendor_product,unique"`
	Name     string `gorm:"column:name;not null;index:idx_vendor_product,unique"`

	Vendor *vendorModel `gorm:"foreignKey:VendorID"`
}

func (productModel) TableName() string {
	return "products"
}

// cveModel is the record row. All optional columns are pointers so that an upsert can
// overwrite a value with NULL.
type cveModel struct {
	ID           int64    `gorm:"column:id;primaryKey"`
	CVEID        string   `gorm:"column:cve_id;not null;unique"`
	Identifier   *string  `gorm:"column:identifier"`
	Description  *string  `gorm:"column:description"`
	Year         *int     `gorm:"column:year"`
	CVSS         *float64 `gorm:"column:cvss"`
	Published    *string  `gorm:"column:published"`
	LastModified *string  `gorm:"column:last_modified"`
	Status       *string  `gorm:"column:status"`
}

func (cveModel) TableName() string {
	return "cves"
}

type cveProductModel struct {
	CVEID     int64 `gorm:"column:cve_id;primaryKey;autoIncrement:false"`
	ProductID int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`

	CVE     *cveModel     `gorm:"foreignKey:CVEID"`
	Product *productModel `gorm:"foreignKey:ProductID"`
}

func (cveProductModel) TableName() string {
	return "cve_product"
}

// referenceModel rows carry no uniqueness constraint: the same URL may be appended for
// the same record multiple times.
type referenceModel struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	CVEID int64  `gorm:"column:cve_id;not null;index"`
	URL   string `gorm:"column:url;not null"`

	CVE *cveModel `gorm:"belongsTo;foreignKey:CVEID;references:ID"`
}

func (referenceModel) TableName() string {
	return "references_table"
}

func newCVEModel(record cvedb.Record) cveModel {
	return cveModel{
		CVEID:        record.CVEID,
		Identifier:   record.Identifier,
		Description:  record.Description,
		Year:         record.Year,
		CVSS:         record.CVSS,
		Published:    record.Published,
		LastModified: record.LastModified,
		Status:       record.Status,
	}
}

// Inflate returns the domain record for this row only; products and references are
// joined in separately by the store.
func (m cveModel) Inflate() cvedb.Record {
	return cvedb.Record{
		CVEID:        m.CVEID,
		Identifier:   m.Identifier,
		Description:  m.Description,
		Year:         m.Year,
		CVSS:         m.CVSS,
		Published:    m.Published,
		LastModified: m.LastModified,
		Status:       m.Status,
	}
}
