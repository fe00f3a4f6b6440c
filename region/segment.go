// Package region 在单帧图像中查找与目标颜色相近的连通区域。
package region

import (
	"context"
	"fmt"
	"image"

	cptypes "campaint/type"
)

// DefaultMinRegionSize 小于该像素数的连通块会被丢弃
const DefaultMinRegionSize = 50

// Segmenter 基于泛洪填充的区域分割器
type Segmenter struct {
	Threshold     int // 单通道最大差值
	MinRegionSize int // 区域最少像素数
}

// NewSegmenter 返回使用默认参数的分割器
func NewSegmenter() *Segmenter {
	return &Segmenter{
		Threshold:     cptypes.DefaultThreshold,
		MinRegionSize: DefaultMinRegionSize,
	}
}

// Result 一帧的分割结果，每帧整体替换
type Result struct {
	Target    cptypes.Color
	Regions   []cptypes.Region
	Recolored image.Image
}

// 8 邻域偏移
var neighbors = [8]image.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Segment 按行优先顺序扫描，返回所有足够大的连通区域（按种子像素的扫描顺序）
func (s *Segmenter) Segment(img image.Image, target cptypes.Color) []cptypes.Region {
	regions, _ := s.SegmentContext(context.Background(), img, target)
	return regions
}

// SegmentContext 同 Segment，但每扫描一行检查一次 ctx；超时或取消时返回 ctx.Err()
func (s *Segmenter) SegmentContext(ctx context.Context, img image.Image, target cptypes.Color) ([]cptypes.Region, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// 先把整帧读成颜色数组，避免在泛洪时反复走 image.Image 接口
	pixels := make([]cptypes.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixels[y*w+x] = cptypes.ColorAt(img, bounds.Min.X+x, bounds.Min.Y+y)
		}
	}

	f := &filler{
		w:         w,
		h:         h,
		pixels:    pixels,
		visited:   make([]bool, w*h),
		target:    target,
		threshold: s.Threshold,
	}

	regions := []cptypes.Region{}
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			idx := y*w + x
			if f.visited[idx] || !f.match(idx) {
				continue
			}
			component := f.fill(x, y)
			// 泛洪结束后才决定是否接受，每个连通块最多加入一次
			if len(component) < s.MinRegionSize {
				continue
			}
			region := make(cptypes.Region, len(component))
			for i, p := range component {
				region[i] = p.Add(bounds.Min)
			}
			regions = append(regions, region)
		}
	}
	return regions, nil
}

type filler struct {
	w, h      int
	pixels    []cptypes.Color
	visited   []bool
	target    cptypes.Color
	threshold int
	queue     []image.Point
}

func (f *filler) match(idx int) bool {
	return cptypes.Matches(f.pixels[idx], f.target, f.threshold)
}

func (f *filler) index(p image.Point) int {
	if p.X < 0 || p.Y < 0 || p.X >= f.w || p.Y >= f.h {
		panic(fmt.Sprintf("region: coordinate %v outside %dx%d image", p, f.w, f.h))
	}
	return p.Y*f.w + p.X
}

// fill 从 (x, y) 开始做 BFS，返回出队顺序的像素（坐标相对图像原点）
func (f *filler) fill(x, y int) []image.Point {
	seed := image.Pt(x, y)
	f.visited[f.index(seed)] = true
	f.queue = append(f.queue[:0], seed)

	var component []image.Point
	for head := 0; head < len(f.queue); head++ {
		cur := f.queue[head]
		component = append(component, cur)
		for _, d := range neighbors {
			n := cur.Add(d)
			if n.X < 0 || n.Y < 0 || n.X >= f.w || n.Y >= f.h {
				continue
			}
			idx := f.index(n)
			if f.visited[idx] || !f.match(idx) {
				continue
			}
			f.visited[idx] = true
			f.queue = append(f.queue, n)
		}
	}
	return component
}

// LargestRegion 返回像素最多的区域；并列时取最先发现的。没有区域时 ok 为 false
func LargestRegion(regions []cptypes.Region) (largest cptypes.Region, ok bool) {
	for _, r := range regions {
		if !ok || len(r) > len(largest) {
			largest, ok = r, true
		}
	}
	return largest, ok
}
