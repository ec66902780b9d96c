package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"

	// Registered decoders for the formats thumbnail hosts actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/link2vid/link2vid/util"
	"github.com/nfnt/resize"
)

// decodeImage decodes raw downloaded bytes into a bitmap using whichever
// registered format matches.
func decodeImage(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	_ = format
	return img, nil
}

// coverCrop scales src so it fully covers a width x height box, then crops
// the centered overflow away. The result always has the exact requested
// dimensions and a uniform RGBA pixel layout.
func coverCrop(src image.Image, width, height int) *image.RGBA {
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()

	// Cover scaling uses the larger of the two axis ratios so both target
	// dimensions are filled.
	scale := util.Max(float64(width)/float64(srcW), float64(height)/float64(srcH))
	scaledW := int(math.Ceil(float64(srcW) * scale))
	scaledH := int(math.Ceil(float64(srcH) * scale))

	scaled := resize.Resize(uint(scaledW), uint(scaledH), src, resize.Lanczos3)

	offsetX := (scaled.Bounds().Dx() - width) / 2
	offsetY := (scaled.Bounds().Dy() - height) / 2

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), scaled, scaled.Bounds().Min.Add(image.Pt(offsetX, offsetY)), draw.Src)
	return out
}
