package media

import "context"

// ImageSource yields the images column of every product. It must not page or truncate.
type ImageSource interface {
	ImageLists(ctx context.Context) ([][]string, error)
}

// ReferenceComputer builds the set of URLs attached to any product.
type ReferenceComputer interface {
	ComputeReferenceSet(ctx context.Context) (URLSet, error)
}

// AssetIndex classifies stored images as organized by scanning product image lists.
type AssetIndex struct {
	source ImageSource
}

func NewAssetIndex(source ImageSource) *AssetIndex {
	return &AssetIndex{source: source}
}

// ComputeReferenceSet unions every non-empty image URL of every product.
// On failure it returns a *DataFetchError and a nil set.
func (a *AssetIndex) ComputeReferenceSet(ctx context.Context) (URLSet, error) {
	lists, err := a.source.ImageLists(ctx)
	if err != nil {
		return nil, &DataFetchError{Err: err}
	}
	set := make(URLSet)
	for _, images := range lists {
		for _, u := range images {
			set.Add(u)
		}
	}
	return set, nil
}
