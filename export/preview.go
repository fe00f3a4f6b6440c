package export

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Preview 把当前视图缩放到 width 宽并在左上角标注 label
func Preview(view image.Image, label string, width int) image.Image {
	b := view.Bounds()
	if width <= 0 || b.Empty() {
		width = b.Dx()
	}
	height := b.Dy() * width / max(b.Dx(), 1)
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), view, b, draw.Over, nil)

	dc := gg.NewContext(width, height)
	// 透明像素显示为白底
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(scaled, 0, 0)
	if label != "" {
		tw, th := dc.MeasureString(label)
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawRectangle(0, 0, tw+8, th+8)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(label, 4, 4, 0, 1)
	}
	return dc.Image()
}
