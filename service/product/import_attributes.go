package product

import (
	"strings"

	"gorm.io/datatypes"
)

// attributePrefix marks free-form attribute columns, e.g. attr_border or attr_blouse_piece.
const attributePrefix = "attr_"

func isAttributeColumn(h string) bool {
	return strings.HasPrefix(h, attributePrefix) && len(h) > len(attributePrefix)
}

func hasAttributeColumns(colIndex map[string]int) bool {
	for h := range colIndex {
		if isAttributeColumn(h) {
			return true
		}
	}
	return false
}

// collectAttributes gathers non-empty attr_* cells into the attributes map.
func collectAttributes(row []string, headers []string) datatypes.JSONMap {
	var m datatypes.JSONMap
	for i, h := range headers {
		if !isAttributeColumn(h) || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if m == nil {
			m = datatypes.JSONMap{}
		}
		m[strings.TrimPrefix(h, attributePrefix)] = v
	}
	return m
}
