package product

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ImageList is the ordered list of public image URLs of a product. Index 0 is the main image.
// Postgres stores it as text[]; other dialects store the same array literal in a text column.
type ImageList []string

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = ImageList(arr)
	return nil
}

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

// GormDBDataType picks the column type per dialect.
func (ImageList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Main returns the first image, the product's main image by convention.
func (l ImageList) Main() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
