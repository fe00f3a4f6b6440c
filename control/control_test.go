package control

import (
	"context"
	"errors"
	"strings"
	"testing"

	cptypes "campaint/type"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"w", Command{Kind: SetMode, Mode: cptypes.Live}},
		{"r", Command{Kind: SetMode, Mode: cptypes.Recolored}},
		{"p", Command{Kind: SetMode, Mode: cptypes.Painting}},
		{"c", Command{Kind: Clear}},
		{"o", Command{Kind: SaveRecolored}},
		{"s", Command{Kind: SavePainting}},
		{" v ", Command{Kind: SavePaintingSVG}},
		{"q", Command{Kind: Quit}},
		{"pick 12 7", Command{Kind: Pick, X: 12, Y: 7}},
		{"target #FF0000", Command{Kind: Target, Color: cptypes.Color{R: 255}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): have %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("x"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown key: have %v, want ErrUnknownCommand", err)
	}
	if _, err := Parse("w w"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("two keys: have %v, want ErrUnknownCommand", err)
	}
	for _, bad := range []string{"pick 1", "pick a b", "target", "target red"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) accepted", bad)
		}
	}
}

func TestScan(t *testing.T) {
	in := strings.NewReader("# comment\nw\n\nbogus\npick 1 2\nq\n")
	var got []Command
	for cmd := range Scan(context.Background(), in) {
		got = append(got, cmd)
	}
	want := []Command{{Kind: SetMode, Mode: cptypes.Live}, {Kind: Pick, X: 1, Y: 2}, {Kind: Quit}}
	if len(got) != len(want) {
		t.Fatalf("have %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d: have %+v, want %+v", i, got[i], want[i])
		}
	}
}
