package sales

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockingClause returns SELECT ... FOR UPDATE where the dialect supports it.
func lockingClause(tx *gorm.DB) []clause.Expression {
	switch tx.Dialector.Name() {
	case "postgres", "mysql":
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}
