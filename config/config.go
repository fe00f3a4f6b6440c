// Package config 读写 TOML 配置文件。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"campaint/paint"
	"campaint/region"
	cptypes "campaint/type"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// Config 全部可配置项
type Config struct {
	Threshold     int
	MinRegionSize int
	BrushColor    string

	// 帧来源：视频文件路径或摄像头设备
	Source       string
	SourceFormat string
	Width        int
	Height       int
	FPS          int

	OutputDir     string
	PreviewPath   string
	PreviewWidth  int
	PreviewEvery  int
	FrameBudgetMs int

	// S3Bucket 为空时不上传
	S3Bucket string
	S3Region string
	S3Prefix string
}

// Default 返回默认配置
func Default() Config {
	return Config{
		Threshold:     cptypes.DefaultThreshold,
		MinRegionSize: region.DefaultMinRegionSize,
		BrushColor:    paint.DefaultBrushColor.Hex(),
		Source:        "/dev/video0",
		SourceFormat:  "v4l2",
		Width:         640,
		Height:        480,
		FPS:           30,
		OutputDir:     "pictures",
		PreviewWidth:  320,
		PreviewEvery:  30,
		S3Region:      "us-east-1",
		S3Prefix:      "campaint",
	}
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	var errs []error
	if c.Threshold < 0 || c.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold %d out of range [0,255]", c.Threshold))
	}
	if c.MinRegionSize < 1 {
		errs = append(errs, fmt.Errorf("min region size %d must be positive", c.MinRegionSize))
	}
	if _, err := cptypes.ParseHexColor(c.BrushColor); err != nil {
		errs = append(errs, fmt.Errorf("brush color: %w", err))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("frame size %dx%d must be positive", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if c.Source == "" {
		errs = append(errs, errors.New("no frame source"))
	}
	if c.FrameBudgetMs < 0 {
		errs = append(errs, fmt.Errorf("frame budget %dms is negative", c.FrameBudgetMs))
	}
	return errors.Join(errs...)
}

// Session 转成画图会话的参数
func (c *Config) Session() (paint.Config, error) {
	brush, err := cptypes.ParseHexColor(c.BrushColor)
	if err != nil {
		return paint.Config{}, err
	}
	return paint.Config{
		Threshold:     c.Threshold,
		MinRegionSize: c.MinRegionSize,
		BrushColor:    brush,
		FrameBudget:   time.Duration(c.FrameBudgetMs) * time.Millisecond,
	}, nil
}

// Read 读取 path；缺失的字段保持默认值
func Read(path string) (Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return conf, nil
}

// Write 把配置写到 path
func Write(path string, conf *Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

// Load 读取 dir 下的配置文件，不存在时先写入默认配置
func Load(dir string) (Config, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return Config{}, fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(dir, configFile)
	ok, err := exists(path)
	if err != nil {
		return Config{}, fmt.Errorf("check config file: %w", err)
	}
	if !ok {
		log.Println("Initializing config")
		conf := Default()
		if err := Write(path, &conf); err != nil {
			return Config{}, err
		}
		return conf, nil
	}
	return Read(path)
}

// Dir 默认配置目录
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "campaint")
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	log.Printf("Couldn't resolve $%s falling back to '%s'\n", xdg, fallback)
	return fallback
}
