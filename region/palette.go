package region

import (
	"image"
	"sort"

	cptypes "campaint/type"
)

// box 中位切分用的颜色盒子
type box struct {
	pixels     []cptypes.Color
	rMin, rMax uint8
	gMin, gMax uint8
	bMin, bMax uint8
}

// 计算盒子范围
func (b *box) bound() {
	if len(b.pixels) == 0 {
		return
	}
	b.rMin, b.rMax = 255, 0
	b.gMin, b.gMax = 255, 0
	b.bMin, b.bMax = 255, 0
	for _, p := range b.pixels {
		b.rMin, b.rMax = min(b.rMin, p.R), max(b.rMax, p.R)
		b.gMin, b.gMax = min(b.gMin, p.G), max(b.gMax, p.G)
		b.bMin, b.bMax = min(b.bMin, p.B), max(b.bMax, p.B)
	}
}

func (b *box) widest() (channel int, width int) {
	r, g, bl := int(b.rMax-b.rMin), int(b.gMax-b.gMin), int(b.bMax-b.bMin)
	switch {
	case r >= g && r >= bl:
		return 0, r
	case g >= bl:
		return 1, g
	default:
		return 2, bl
	}
}

func (b *box) mean() cptypes.Color {
	var rs, gs, bs int
	for _, p := range b.pixels {
		rs += int(p.R)
		gs += int(p.G)
		bs += int(p.B)
	}
	n := len(b.pixels)
	return cptypes.Color{R: uint8(rs / n), G: uint8(gs / n), B: uint8(bs / n)}
}

// Palette 用中位切分求出图像中最多 n 种主色，按覆盖像素数从多到少排列。
// 用来给用户推荐可追踪的目标颜色
func Palette(img image.Image, n int) []cptypes.Color {
	bounds := img.Bounds()
	if n <= 0 || bounds.Empty() {
		return nil
	}
	pixels := make([]cptypes.Color, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixels = append(pixels, cptypes.ColorAt(img, x, y))
		}
	}

	first := &box{pixels: pixels}
	first.bound()
	boxes := []*box{first}

	for len(boxes) < n {
		// 找到范围最大的盒子
		split, channel, widest := -1, 0, 0
		for i, b := range boxes {
			if len(b.pixels) < 2 {
				continue
			}
			if c, w := b.widest(); w > widest {
				split, channel, widest = i, c, w
			}
		}
		if split < 0 {
			break
		}

		b := boxes[split]
		sort.Slice(b.pixels, func(i, j int) bool {
			switch channel {
			case 0:
				return b.pixels[i].R < b.pixels[j].R
			case 1:
				return b.pixels[i].G < b.pixels[j].G
			default:
				return b.pixels[i].B < b.pixels[j].B
			}
		})
		median := len(b.pixels) / 2
		lo := &box{pixels: b.pixels[:median]}
		hi := &box{pixels: b.pixels[median:]}
		lo.bound()
		hi.bound()
		boxes[split] = lo
		boxes = append(boxes, hi)
	}

	sort.SliceStable(boxes, func(i, j int) bool {
		return len(boxes[i].pixels) > len(boxes[j].pixels)
	})
	colors := make([]cptypes.Color, len(boxes))
	for i, b := range boxes {
		colors[i] = b.mean()
	}
	return colors
}
