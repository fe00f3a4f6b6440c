// Package paint 把每帧最大的目标颜色区域（画笔）累积到持久画布上。
package paint

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"campaint/region"
	cptypes "campaint/type"
)

var (
	ErrNoFrame     = errors.New("no frame received yet")
	ErrOutOfBounds = errors.New("point outside frame")
)

// DefaultBrushColor 默认画笔颜色（蓝色）
var DefaultBrushColor = cptypes.Color{B: 255}

// BrushState 区分“还没分割过”和“分割了但没有区域”
type BrushState int

const (
	NotSegmented BrushState = iota
	NoRegion
	Found
)

func (s BrushState) String() string {
	switch s {
	case NotSegmented:
		return "not segmented"
	case NoRegion:
		return "no region"
	case Found:
		return "found"
	}
	return fmt.Sprintf("BrushState(%d)", int(s))
}

// Config 构造会话时读取的参数
type Config struct {
	Threshold     int
	MinRegionSize int
	BrushColor    cptypes.Color
	// FrameBudget 大于 0 时，分割超时的帧不作画
	FrameBudget   time.Duration
	// Colors 为 nil 时使用未设种子的随机颜色
	Colors        region.ColorSource
}

// DefaultConfig 返回默认参数
func DefaultConfig() Config {
	return Config{
		Threshold:     cptypes.DefaultThreshold,
		MinRegionSize: region.DefaultMinRegionSize,
		BrushColor:    DefaultBrushColor,
	}
}

// Session 持有画布、目标颜色和显示模式。
// 只能由一个帧循环驱动，OnFrame 必须在下一帧到来前完成
type Session struct {
	segmenter *region.Segmenter
	brush     cptypes.Color
	budget    time.Duration
	colors    region.ColorSource

	target    *cptypes.Color
	mode      cptypes.DisplayMode
	canvas    *image.NRGBA
	frame     image.Image
	frames    int
	result    *region.Result
	largest   cptypes.Region
	hasBrush  bool
}

// NewSession 创建 width×height 的透明画布
func NewSession(width, height int, cfg Config) *Session {
	colors := cfg.Colors
	if colors == nil {
		colors = region.RandomColors()
	}
	return &Session{
		segmenter: &region.Segmenter{
			Threshold:     cfg.Threshold,
			MinRegionSize: cfg.MinRegionSize,
		},
		brush:  cfg.BrushColor,
		budget: cfg.FrameBudget,
		colors: colors,
		mode:   cptypes.Live,
		canvas: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// OnFrame 处理一帧：没有目标颜色时只保存帧用于实时显示；
// 否则分割、重新着色，并把最大区域涂到画布上
func (s *Session) OnFrame(ctx context.Context, frame cptypes.Frame) error {
	if frame.Image == nil {
		return errors.New("nil frame image")
	}
	s.frame = frame.Image
	s.frames++
	if s.target == nil {
		return nil
	}
	target := *s.target

	if s.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.budget)
		defer cancel()
	}
	regions, err := s.segmenter.SegmentContext(ctx, frame.Image, target)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("frame %d: segmentation over budget %v, skipped\n", frame.Index, s.budget)
			return nil
		}
		return fmt.Errorf("segment frame %d: %w", frame.Index, err)
	}

	s.result = &region.Result{
		Target:    target,
		Regions:   regions,
		Recolored: region.Recolor(frame.Image, regions, s.colors),
	}
	s.largest, s.hasBrush = region.LargestRegion(regions)
	if s.hasBrush {
		s.stamp(s.largest)
	}
	return nil
}

// stamp 用画笔颜色直接覆盖区域内的画布像素
func (s *Session) stamp(r cptypes.Region) {
	c := s.brush.NRGBA()
	b := s.canvas.Bounds()
	for _, p := range r {
		if p.In(b) {
			s.canvas.SetNRGBA(p.X, p.Y, c)
		}
	}
}

// SetTargetColor 更换追踪颜色，下一帧立即生效
func (s *Session) SetTargetColor(c cptypes.Color) {
	s.target = &c
}

// Pick 取最近一帧 (x, y) 处的颜色作为目标，并切换到重新着色视图
func (s *Session) Pick(x, y int) (cptypes.Color, error) {
	if s.frame == nil {
		return cptypes.Color{}, ErrNoFrame
	}
	if !image.Pt(x, y).In(s.frame.Bounds()) {
		return cptypes.Color{}, fmt.Errorf("%w: (%d,%d) not in %v", ErrOutOfBounds, x, y, s.frame.Bounds())
	}
	c := cptypes.ColorAt(s.frame, x, y)
	s.SetTargetColor(c)
	s.mode = cptypes.Recolored
	return c, nil
}

// Target 当前目标颜色
func (s *Session) Target() (cptypes.Color, bool) {
	if s.target == nil {
		return cptypes.Color{}, false
	}
	return *s.target, true
}

// ClearCanvas 把画布重置为同尺寸的透明图像
func (s *Session) ClearCanvas() {
	s.canvas = image.NewNRGBA(s.canvas.Bounds())
}

func (s *Session) SetDisplayMode(m cptypes.DisplayMode) { s.mode = m }

func (s *Session) DisplayMode() cptypes.DisplayMode { return s.mode }

// Canvas 返回画布本身，调用方不得修改
func (s *Session) Canvas() *image.NRGBA { return s.canvas }

func (s *Session) BrushColor() cptypes.Color { return s.brush }

func (s *Session) FrameCount() int { return s.frames }

// Result 最近一次分割结果，还没分割过时为 nil
func (s *Session) Result() *region.Result { return s.result }

// Recolored 最近一次的重新着色图像
func (s *Session) Recolored() (image.Image, bool) {
	if s.result == nil {
		return nil, false
	}
	return s.result.Recolored, true
}

// Brush 最近一帧的画笔区域
func (s *Session) Brush() (cptypes.Region, BrushState) {
	switch {
	case s.result == nil:
		return nil, NotSegmented
	case !s.hasBrush:
		return nil, NoRegion
	}
	return s.largest, Found
}

// View 按显示模式返回渲染器应显示的图像，可能为 nil（还没有帧）
func (s *Session) View() image.Image {
	switch s.mode {
	case cptypes.Recolored:
		if img, ok := s.Recolored(); ok {
			return img
		}
		return s.frame
	case cptypes.Painting:
		return s.canvas
	}
	return s.frame
}
