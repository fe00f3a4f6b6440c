package region

import (
	"image"
	"math/rand/v2"

	cptypes "campaint/type"

	"golang.org/x/image/draw"
)

// ColorSource 为每个区域提供一种显示颜色
type ColorSource func() cptypes.Color

// RandomColors 未设种子的随机颜色，在整个 RGB 空间上均匀分布
func RandomColors() ColorSource {
	return func() cptypes.Color {
		return randomColor(rand.Uint32())
	}
}

// SeededColors 固定种子的颜色序列，测试时使用
func SeededColors(seed uint64) ColorSource {
	r := rand.New(rand.NewPCG(seed, seed))
	return func() cptypes.Color {
		return randomColor(r.Uint32())
	}
}

func randomColor(v uint32) cptypes.Color {
	return cptypes.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Recolor 复制原图，并把每个区域整体涂成一种颜色；区域外像素保持不变
func Recolor(img image.Image, regions []cptypes.Region, src ColorSource) *image.NRGBA {
	if src == nil {
		src = RandomColors()
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, r := range regions {
		c := src().NRGBA()
		for _, p := range r {
			out.SetNRGBA(p.X, p.Y, c)
		}
	}
	return out
}
