// Package camera 通过 ffmpeg 从摄像头或视频文件逐帧读取图像。
package camera

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	cptypes "campaint/type"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Source 帧来源参数
type Source struct {
	Path   string // 设备或文件路径
	Format string // 输入格式，例如 "v4l2"；文件留空
	Width  int
	Height int
	FPS    int
}

// Stream 一路正在运行的 ffmpeg 帧流
type Stream struct {
	frames chan cptypes.Frame
	done   chan struct{}
	err    error
}

// Open 启动 ffmpeg，把帧缩放为 Width×Height 的 RGB24 原始数据并逐帧解码。
// Frames 通道无缓冲：上一帧被取走前不会解码下一帧
func Open(ctx context.Context, src Source) (*Stream, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("bad frame size %dx%d", src.Width, src.Height)
	}
	if src.FPS <= 0 {
		src.FPS = 30
	}

	input := ffmpeg.KwArgs{}
	if src.Format != "" {
		input["f"] = src.Format
	}

	r, w := io.Pipe()
	cmd := ffmpeg.Input(src.Path, input).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
			"r":       strconv.Itoa(src.FPS),
			"vf":      fmt.Sprintf("scale=%d:%d", src.Width, src.Height),
		}).
		WithOutput(w).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	s := &Stream{
		frames: make(chan cptypes.Frame),
		done:   make(chan struct{}),
	}

	go func() {
		err := cmd.Run()
		if err != nil {
			err = fmt.Errorf("ffmpeg: %w", err)
		}
		w.CloseWithError(err)
	}()

	go func() {
		defer close(s.done)
		defer close(s.frames)
		err := ReadFrames(r, src.Width, src.Height, func(f cptypes.Frame) error {
			select {
			case s.frames <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		r.CloseWithError(err)
		if err != nil && ctx.Err() == nil {
			s.err = err
		}
	}()

	log.Printf("Opened frame source %s (%dx%d @ %dfps)\n", src.Path, src.Width, src.Height, src.FPS)
	return s, nil
}

// Frames 帧通道，流结束后关闭
func (s *Stream) Frames() <-chan cptypes.Frame { return s.frames }

// Err 流结束后返回导致结束的错误；正常读到结尾时为 nil
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// ReadFrames 从 r 读取连续的 RGB24 帧并依次交给 fn，读到 EOF 时返回 nil
func ReadFrames(r io.Reader, width, height int, fn func(cptypes.Frame) error) error {
	reader := bufio.NewReaderSize(r, width*height*3)
	buf := make([]byte, width*height*3)
	for index := 0; ; index++ {
		_, err := io.ReadFull(reader, buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("frame %d truncated", index)
		}
		if err != nil {
			return fmt.Errorf("read frame %d: %w", index, err)
		}
		if err := fn(cptypes.Frame{Index: index, Image: decodeRGB24(buf, width, height)}); err != nil {
			return err
		}
	}
}

func decodeRGB24(buf []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// videoProbe 只关心视频流
type videoProbe struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

// TotalFrames 用 ffprobe 估算视频文件的总帧数，只用于进度日志
func TotalFrames(videoPath string) (int, error) {
	probeStr, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %w", err)
	}
	return parseProbe(probeStr)
}

func parseProbe(probeStr string) (int, error) {
	var probe videoProbe
	if err := json.Unmarshal([]byte(probeStr), &probe); err != nil {
		return 0, fmt.Errorf("json unmarshal error: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if n, err := strconv.Atoi(stream.NbFrames); err == nil && n > 0 {
			return n, nil
		}
		// 没有 nb_frames 时用 avg_frame_rate * duration 估算
		num, den, ok := strings.Cut(stream.AvgFrameRate, "/")
		if !ok {
			continue
		}
		n, _ := strconv.ParseFloat(num, 64)
		d, _ := strconv.ParseFloat(den, 64)
		dur, err := strconv.ParseFloat(stream.Duration, 64)
		if d == 0 || err != nil {
			continue
		}
		return int(n / d * dur), nil
	}
	return 0, errors.New("no video stream found or cannot determine frame count")
}
