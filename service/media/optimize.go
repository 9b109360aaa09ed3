package media

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Optimizer downsizes uploads to fit MaxDimension and re-encodes them as WebP.
type Optimizer struct {
	MaxDimension int
	Quality      float32
}

func NewOptimizer(maxDimension, quality int) *Optimizer {
	if maxDimension <= 0 {
		maxDimension = 2000
	}
	if quality <= 0 || quality > 100 {
		quality = 82
	}
	return &Optimizer{MaxDimension: maxDimension, Quality: float32(quality)}
}

// Optimized is the re-encoded file.
type Optimized struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

func (o *Optimizer) Optimize(data []byte) (Optimized, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Optimized{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() > o.MaxDimension || b.Dy() > o.MaxDimension {
		img = imaging.Fit(img, o.MaxDimension, o.MaxDimension, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: o.Quality}); err != nil {
		return Optimized{}, fmt.Errorf("encode webp: %w", err)
	}
	b = img.Bounds()
	return Optimized{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
		Ext:         ".webp",
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}
