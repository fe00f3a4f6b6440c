// Package svg2json 从描边得到的 SVG 中取出路径数据。
package svg2json

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"
)

// Stroke 一幅画的全部路径
type Stroke struct {
	Color   string     `json:"color"`
	ViewBox [4]float64 `json:"viewBox"`
	Paths   []string   `json:"paths"`
}

// PathData 所有路径用空格连接
func (s Stroke) PathData() string {
	return strings.Join(s.Paths, " ")
}

// Parse 解析 SVG 字符串；color 为 "RRGGBB"
func Parse(svgData, color string) (Stroke, error) {
	parsed, err := svg.ParseSvg(svgData, "painting", 1.0)
	if err != nil {
		return Stroke{}, fmt.Errorf("parse svg: %w", err)
	}
	box, err := parseViewBox(parsed.ViewBox)
	if err != nil {
		return Stroke{}, err
	}
	paths, err := extractPaths(svgData)
	if err != nil {
		return Stroke{}, err
	}
	return Stroke{Color: color, ViewBox: box, Paths: paths}, nil
}

// JSON 返回缩进后的 JSON
func JSON(s Stroke) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func parseViewBox(viewBox string) ([4]float64, error) {
	var box [4]float64
	fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
	if len(fields) != 4 {
		return box, fmt.Errorf("bad viewBox %q", viewBox)
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return box, fmt.Errorf("bad viewBox %q: %w", viewBox, err)
		}
		box[i] = v
	}
	return box, nil
}

// extractPaths 取出任意层级下所有 <path> 的 d 属性
func extractPaths(svgData string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(svgData))
	var paths []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paths, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}
		for _, a := range el.Attr {
			if a.Name.Local == "d" {
				paths = append(paths, strings.Join(strings.Fields(a.Value), " "))
			}
		}
	}
}
