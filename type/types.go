package cptypes

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// DefaultThreshold 默认的单通道颜色容差
const DefaultThreshold = 20

// ErrBadHex 颜色字符串格式错误
var ErrBadHex = errors.New("bad hex color")

// Color 表示一个像素的 RGB 值，alpha 不参与匹配
type Color struct {
	R, G, B uint8
}

// Coordinate 表示图像中的像素坐标
type Coordinate = image.Point

// Region 是按 BFS 发现顺序排列的连通像素集合
type Region []Coordinate

// Frame 表示一帧图像
type Frame struct {
	Index int
	Image image.Image
}

// DisplayMode 渲染器当前应显示的内容
type DisplayMode int

const (
	Live DisplayMode = iota
	Recolored
	Painting
)

func (m DisplayMode) String() string {
	switch m {
	case Live:
		return "live"
	case Recolored:
		return "recolored"
	case Painting:
		return "painting"
	}
	return "DisplayMode(" + strconv.Itoa(int(m)) + ")"
}

// NRGBA 转成不透明的 color.NRGBA
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex 返回 "#RRGGBB" 形式
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// FromColor 丢弃 alpha，取非预乘的通道值
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// ColorAt 读取图像 (x, y) 处的颜色
func ColorAt(img image.Image, x, y int) Color {
	return FromColor(img.At(x, y))
}

// Matches 三个通道的差值都不超过 threshold 时返回 true（含边界）
func Matches(a, b Color, threshold int) bool {
	return absDiff(a.R, b.R) <= threshold &&
		absDiff(a.G, b.G) <= threshold &&
		absDiff(a.B, b.B) <= threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ParseHexColor 解析 "#RRGGBB" 或 "RRGGBB"
func ParseHexColor(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadHex, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrBadHex, hex)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
