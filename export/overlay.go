package export

import (
	"image"
	"io"
	"sort"
	"strconv"

	cptypes "campaint/type"

	svg "github.com/ajstarks/svgo"
)

// run 一行中连续的像素
type run struct {
	y, x0, x1 int
}

// runs 把区域拆成按行排列的水平像素段
func runs(r cptypes.Region) []run {
	pts := append(cptypes.Region(nil), r...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	var out []run
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].y == p.Y && out[n-1].x1 == p.X {
			out[n-1].x1++
			continue
		}
		out = append(out, run{y: p.Y, x0: p.X, x1: p.X + 1})
	}
	return out
}

// RegionOverlaySVG 每个区域一个 <g>，区域内像素用水平矩形表示
func RegionOverlaySVG(w io.Writer, bounds image.Rectangle, regions []cptypes.Region, colors []cptypes.Color) {
	canvas := svg.New(w)
	canvas.Start(bounds.Dx(), bounds.Dy())
	canvas.Title(strconv.Itoa(len(regions)) + " regions")
	for i, r := range regions {
		fill := "#000000"
		if i < len(colors) {
			fill = colors[i].Hex()
		}
		canvas.Gid("region-" + strconv.Itoa(i))
		canvas.Gstyle("fill:" + fill)
		for _, s := range runs(r) {
			canvas.Rect(s.x0-bounds.Min.X, s.y-bounds.Min.Y, s.x1-s.x0, 1)
		}
		canvas.Gend()
		canvas.Gend()
	}
	canvas.End()
}
