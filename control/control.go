// Package control 把输入事件（按键、点选）解析成命令。
package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	cptypes "campaint/type"
)

// ErrUnknownCommand 无法识别的按键
var ErrUnknownCommand = errors.New("unexpected key")

// Kind 命令类型
type Kind int

const (
	SetMode Kind = iota
	Clear
	SaveRecolored
	SavePainting
	SavePaintingSVG
	SavePaintingBAS
	SaveOverlay
	Pick
	Target
	Palette
	Quit
)

// Command 一条输入事件
type Command struct {
	Kind  Kind
	Mode  cptypes.DisplayMode // SetMode
	X, Y  int                 // Pick
	Color cptypes.Color       // Target
}

var keys = map[string]Command{
	"w": {Kind: SetMode, Mode: cptypes.Live},
	"r": {Kind: SetMode, Mode: cptypes.Recolored},
	"p": {Kind: SetMode, Mode: cptypes.Painting},
	"c": {Kind: Clear},
	"o": {Kind: SaveRecolored},
	"s": {Kind: SavePainting},
	"v": {Kind: SavePaintingSVG},
	"b": {Kind: SavePaintingBAS},
	"g": {Kind: SaveOverlay},
	"k": {Kind: Palette},
	"q": {Kind: Quit},
}

// Parse 解析一行输入：单个按键，或 "pick X Y"，或 "target #RRGGBB"
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	switch fields[0] {
	case "pick":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("usage: pick X Y")
		}
		x, errX := strconv.Atoi(fields[1])
		y, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			return Command{}, fmt.Errorf("pick: bad coordinates %q %q", fields[1], fields[2])
		}
		return Command{Kind: Pick, X: x, Y: y}, nil
	case "target":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: target #RRGGBB")
		}
		c, err := cptypes.ParseHexColor(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("target: %w", err)
		}
		return Command{Kind: Target, Color: c}, nil
	}
	if len(fields) == 1 {
		if cmd, ok := keys[fields[0]]; ok {
			return cmd, nil
		}
	}
	return Command{}, fmt.Errorf("%w %s", ErrUnknownCommand, line)
}

// Scan 在后台逐行读取 r，把解析成功的命令发到返回的通道；r 读完或 ctx 取消时关闭通道
func Scan(ctx context.Context, r io.Reader) <-chan Command {
	out := make(chan Command)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			cmd, err := Parse(line)
			if err != nil {
				log.Println(err)
				continue
			}
			select {
			case out <- cmd:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Printf("Couldn't read commands: %v\n", err)
		}
	}()
	return out
}
