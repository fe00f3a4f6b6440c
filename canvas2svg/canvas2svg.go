// Package canvas2svg 用 gotrace 把画布上的笔迹矢量化为 SVG。
package canvas2svg

import (
	"bytes"
	"image"
	"image/color"

	cptypes "campaint/type"

	"github.com/gotranspile/gotrace"
)

// Mask 生成黑白掩码：黑=用画笔颜色画过的像素，白=其他
func Mask(canvas *image.NRGBA, brush cptypes.Color) *image.Gray {
	bounds := canvas.Bounds()
	mask := image.NewGray(bounds)
	ink := brush.NRGBA()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if canvas.NRGBAAt(x, y) == ink {
				mask.SetGray(x, y, color.Gray{Y: 0})
			} else {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

// Trace 把掩码描成 SVG 字符串
func Trace(mask *image.Gray) (string, error) {
	bm := gotrace.BitmapFromGray(mask, nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	sz := mask.Bounds().Size()
	if err := gotrace.Render("svg", nil, &buf, paths, sz.X, sz.Y); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Canvas 直接矢量化画布
func Canvas(canvas *image.NRGBA, brush cptypes.Color) (string, error) {
	return Trace(Mask(canvas, brush))
}
