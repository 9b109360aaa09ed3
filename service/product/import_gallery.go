package product

import (
	"strings"

	productEntity "sareeadmin.GO/model/entity/product"
)

// galleryColumns are read in this order; "image" is the main image when present.
var galleryColumns = []string{"image", "images"}

// collectImages merges the image columns of a row into one ordered list without duplicates.
// Multiple URLs in a cell are separated by "|".
func collectImages(row []string, colIndex map[string]int) productEntity.ImageList {
	var out productEntity.ImageList
	seen := make(map[string]bool)
	for _, col := range galleryColumns {
		val := cell(row, colIndex, col)
		if val == "" {
			continue
		}
		for _, img := range strings.Split(val, "|") {
			img = strings.TrimSpace(img)
			if img == "" || seen[img] {
				continue
			}
			seen[img] = true
			out = append(out, img)
		}
	}
	return out
}
