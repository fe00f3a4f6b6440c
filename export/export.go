// Package export 把重新着色图、画作和区域叠加图写到磁盘，并可选上传到 S3。
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"campaint/canvas2svg"
	"campaint/json2bas"
	"campaint/svg2json"
	cptypes "campaint/type"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

// Uploader 远端存储
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Exporter 把一次会话的导出文件放在 Dir/<Session>/ 下
type Exporter struct {
	Dir         string
	Session     string
	Uploader    Uploader // 可以为 nil
	BASDuration int      // BAS 脚本中画作的显示时长（毫秒）
}

// New 生成带新会话 ID 的 Exporter
func New(dir string, up Uploader) *Exporter {
	return &Exporter{
		Dir:         dir,
		Session:     uuid.NewString(),
		Uploader:    up,
		BASDuration: 10000,
	}
}

func (e *Exporter) path(name string) string {
	return filepath.Join(e.Dir, e.Session, name)
}

// SavePNG 写 PNG 文件，必要时创建目录
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func (e *Exporter) writeFile(name string, data []byte) (string, error) {
	path := e.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) upload(ctx context.Context, path, contentType string) error {
	if e.Uploader == nil {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	key := e.Session + "/" + filepath.Base(path)
	if err := e.Uploader.Upload(ctx, key, f, contentType); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	log.Printf("Uploaded %s\n", key)
	return nil
}

func (e *Exporter) savePNG(ctx context.Context, name string, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%s: nothing to save yet", name)
	}
	path := e.path(name)
	if err := SavePNG(path, img); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return path, e.upload(ctx, path, "image/png")
}

// Recolored 保存重新着色图
func (e *Exporter) Recolored(ctx context.Context, img image.Image) (string, error) {
	return e.savePNG(ctx, "recolored.png", img)
}

// Painting 保存画作
func (e *Exporter) Painting(ctx context.Context, canvas *image.NRGBA) (string, error) {
	return e.savePNG(ctx, "painting.png", canvas)
}

// PaintingSVG 把画作描成 SVG 保存
func (e *Exporter) PaintingSVG(ctx context.Context, canvas *image.NRGBA, brush cptypes.Color) (string, error) {
	svg, err := canvas2svg.Canvas(canvas, brush)
	if err != nil {
		return "", fmt.Errorf("trace painting: %w", err)
	}
	path, err := e.writeFile("painting.svg", []byte(svg))
	if err != nil {
		return "", err
	}
	return path, e.upload(ctx, path, "image/svg+xml")
}

// PaintingBAS 把画作转成 BAS 弹幕脚本，同时保存中间的 JSON 路径数据
func (e *Exporter) PaintingBAS(ctx context.Context, canvas *image.NRGBA, brush cptypes.Color) (string, error) {
	svg, err := canvas2svg.Canvas(canvas, brush)
	if err != nil {
		return "", fmt.Errorf("trace painting: %w", err)
	}
	stroke, err := svg2json.Parse(svg, brush.Hex()[1:])
	if err != nil {
		return "", err
	}
	data, err := svg2json.JSON(stroke)
	if err != nil {
		return "", err
	}
	jsonPath, err := e.writeFile("painting.json", data)
	if err != nil {
		return "", err
	}
	if err := e.upload(ctx, jsonPath, "application/json"); err != nil {
		return "", err
	}

	bas := json2bas.Generate(stroke, "painting", e.BASDuration)
	path, err := e.writeFile("painting.bas", []byte(bas))
	if err != nil {
		return "", err
	}
	return path, e.upload(ctx, path, "text/plain")
}

// Overlay 保存区域叠加 SVG；每个区域的颜色取自重新着色图
func (e *Exporter) Overlay(ctx context.Context, recolored image.Image, regions []cptypes.Region) (string, error) {
	if recolored == nil {
		return "", fmt.Errorf("overlay: nothing to save yet")
	}
	colors := make([]cptypes.Color, len(regions))
	for i, r := range regions {
		if len(r) > 0 {
			colors[i] = cptypes.ColorAt(recolored, r[0].X, r[0].Y)
		}
	}
	var buf bytes.Buffer
	b := recolored.Bounds()
	RegionOverlaySVG(&buf, b, regions, colors)
	path, err := e.writeFile("overlay-"+strconv.Itoa(len(regions))+".svg", buf.Bytes())
	if err != nil {
		return "", err
	}
	return path, e.upload(ctx, path, "image/svg+xml")
}
