package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"campaint/camera"
	"campaint/config"
	"campaint/control"
	"campaint/export"
	"campaint/paint"
	"campaint/region"
	cptypes "campaint/type"
)

// app 帧循环的全部状态，只在 run 的 goroutine 中使用
type app struct {
	conf     config.Config
	session  *paint.Session
	exporter *export.Exporter
}

func run(ctx context.Context, conf config.Config, target string, commands io.Reader) error {
	sc, err := conf.Session()
	if err != nil {
		return err
	}

	var up export.Uploader
	if conf.S3Bucket != "" {
		s3up, err := export.NewS3Uploader(conf.S3Region, conf.S3Bucket, conf.S3Prefix)
		if err != nil {
			return fmt.Errorf("create s3 uploader: %w", err)
		}
		up = s3up
	}

	a := &app{
		conf:     conf,
		session:  paint.NewSession(conf.Width, conf.Height, sc),
		exporter: export.New(conf.OutputDir, up),
	}
	if target != "" {
		c, err := cptypes.ParseHexColor(target)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		a.session.SetTargetColor(c)
	}
	log.Printf("Session %s: threshold %d, min region %d, brush %s\n",
		a.exporter.Session, conf.Threshold, conf.MinRegionSize, conf.BrushColor)

	if conf.SourceFormat == "" {
		if n, err := camera.TotalFrames(conf.Source); err == nil {
			log.Printf("Source has about %d frames\n", n)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := camera.Open(ctx, camera.Source{
		Path:   conf.Source,
		Format: conf.SourceFormat,
		Width:  conf.Width,
		Height: conf.Height,
		FPS:    conf.FPS,
	})
	if err != nil {
		return err
	}
	cmds := control.Scan(ctx, commands)

	// 帧和命令都在这里串行处理，OnFrame 返回前不会接收下一帧
	frames := stream.Frames()
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				log.Printf("Frame source ended after %d frames\n", a.session.FrameCount())
				return stream.Err()
			}
			if err := a.session.OnFrame(ctx, f); err != nil {
				log.Println(err)
			}
			a.render(f.Index)
		case cmd, ok := <-cmds:
			if !ok {
				cmds = nil
				continue
			}
			if cmd.Kind == control.Quit {
				log.Println("Quit")
				return nil
			}
			if err := a.handle(ctx, cmd); err != nil {
				log.Println(err)
			}
		}
	}
}

// handle 执行一条输入命令
func (a *app) handle(ctx context.Context, cmd control.Command) error {
	s := a.session
	switch cmd.Kind {
	case control.SetMode:
		s.SetDisplayMode(cmd.Mode)
		log.Printf("Display %s\n", cmd.Mode)
	case control.Clear:
		s.ClearCanvas()
		log.Println("Canvas cleared")
	case control.Pick:
		c, err := s.Pick(cmd.X, cmd.Y)
		if err != nil {
			return fmt.Errorf("pick: %w", err)
		}
		log.Printf("Tracking %s %v\n", c.Hex(), c)
	case control.Target:
		s.SetTargetColor(cmd.Color)
		log.Printf("Tracking %s %v\n", cmd.Color.Hex(), cmd.Color)
	case control.Palette:
		view := s.View()
		if view == nil {
			return paint.ErrNoFrame
		}
		colors := region.Palette(view, 6)
		hex := make([]string, len(colors))
		for i, c := range colors {
			hex[i] = c.Hex()
		}
		log.Printf("Dominant colors: %s\n", strings.Join(hex, " "))
	default:
		path, err := a.save(ctx, cmd.Kind)
		if err != nil {
			return err
		}
		log.Printf("Saved %s\n", path)
	}
	return nil
}

func (a *app) save(ctx context.Context, kind control.Kind) (string, error) {
	s := a.session
	switch kind {
	case control.SaveRecolored:
		img, _ := s.Recolored()
		return a.exporter.Recolored(ctx, img)
	case control.SavePainting:
		return a.exporter.Painting(ctx, s.Canvas())
	case control.SavePaintingSVG:
		return a.exporter.PaintingSVG(ctx, s.Canvas(), s.BrushColor())
	case control.SavePaintingBAS:
		return a.exporter.PaintingBAS(ctx, s.Canvas(), s.BrushColor())
	case control.SaveOverlay:
		res := s.Result()
		if res == nil {
			return "", errors.New("overlay: no segmentation yet")
		}
		return a.exporter.Overlay(ctx, res.Recolored, res.Regions)
	}
	return "", fmt.Errorf("unhandled command %d", kind)
}

// render 渲染器：按显示模式把当前视图写成预览图
func (a *app) render(index int) {
	if a.conf.PreviewPath == "" || a.conf.PreviewEvery <= 0 || index%a.conf.PreviewEvery != 0 {
		return
	}
	view := a.session.View()
	if view == nil {
		return
	}
	label := a.session.DisplayMode().String()
	if _, st := a.session.Brush(); st != paint.NotSegmented {
		label += " / " + st.String()
	}
	if err := export.SavePNG(a.conf.PreviewPath, export.Preview(view, label, a.conf.PreviewWidth)); err != nil {
		log.Printf("Couldn't write preview: %v\n", err)
	}
}
