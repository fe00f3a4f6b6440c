package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"campaint/config"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认 $XDG_CONFIG_HOME/campaint/config.toml")
	source := flag.String("source", "", "摄像头设备或视频文件路径")
	format := flag.String("format", "", "输入格式，摄像头用 v4l2，视频文件用 none")
	threshold := flag.Int("threshold", -1, "单通道颜色容差")
	minRegion := flag.Int("minregion", -1, "区域最少像素数")
	brush := flag.String("brush", "", "画笔颜色，如 #0000FF")
	target := flag.String("target", "", "初始目标颜色，如 #FF0000")
	commands := flag.String("commands", "-", "命令来源文件，- 表示标准输入")
	output := flag.String("output", "", "导出目录")
	preview := flag.String("preview", "", "预览 PNG 路径")
	doLog := flag.Bool("log", true, "输出日志")
	help := flag.Bool("help", false, "显示帮助信息")
	flag.Parse()
	if *help {
		flag.Usage()
		return
	}
	if !*doLog {
		log.SetOutput(io.Discard)
	}

	var conf config.Config
	var err error
	if *configPath != "" {
		conf, err = config.Read(*configPath)
	} else {
		conf, err = config.Load(config.Dir())
	}
	if err != nil {
		log.Fatalf("Couldn't read config file: %v\n", err)
	}

	if *source != "" {
		conf.Source = *source
	}
	switch *format {
	case "":
	case "none":
		conf.SourceFormat = ""
	default:
		conf.SourceFormat = *format
	}
	if *threshold >= 0 {
		conf.Threshold = *threshold
	}
	if *minRegion >= 0 {
		conf.MinRegionSize = *minRegion
	}
	if *brush != "" {
		conf.BrushColor = *brush
	}
	if *output != "" {
		conf.OutputDir = *output
	}
	if *preview != "" {
		conf.PreviewPath = *preview
	}
	if err := conf.Validate(); err != nil {
		log.Fatalf("Invalid config: %v\n", err)
	}

	cmdInput := os.Stdin
	if *commands != "-" {
		f, err := os.Open(filepath.Clean(*commands))
		if err != nil {
			log.Fatalf("Couldn't open command file: %v\n", err)
		}
		defer f.Close()
		cmdInput = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, conf, *target, cmdInput); err != nil {
		log.Fatal(err)
	}
}
