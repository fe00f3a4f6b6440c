package paint

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"campaint/region"
	cptypes "campaint/type"
)

var (
	black = cptypes.Color{R: 0, G: 0, B: 0}
	red   = cptypes.Color{R: 255, G: 0, B: 0}
	blue  = cptypes.Color{R: 0, G: 0, B: 255}
)

func frameWith(w, h int, bg cptypes.Color, rects map[image.Rectangle]cptypes.Color) cptypes.Frame {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg.NRGBA())
		}
	}
	for r, c := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetNRGBA(x, y, c.NRGBA())
			}
		}
	}
	return cptypes.Frame{Image: img}
}

func testSession(w, h int) *Session {
	cfg := DefaultConfig()
	cfg.MinRegionSize = 4
	cfg.Colors = region.SeededColors(7)
	return NewSession(w, h, cfg)
}

func painted(s *Session) map[image.Point]bool {
	m := make(map[image.Point]bool)
	c := s.Canvas()
	b := c.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.NRGBAAt(x, y).A != 0 {
				m[image.Pt(x, y)] = true
			}
		}
	}
	return m
}

func TestNoTargetNoPaint(t *testing.T) {
	s := testSession(10, 10)
	f := frameWith(10, 10, red, nil)
	if err := s.OnFrame(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if n := len(painted(s)); n != 0 {
		t.Errorf("have %d painted pixels, want 0", n)
	}
	if _, st := s.Brush(); st != NotSegmented {
		t.Errorf("brush state: have %v, want %v", st, NotSegmented)
	}
	if s.View() != f.Image {
		t.Errorf("live view is not the last frame")
	}
}

func TestStrokeUnion(t *testing.T) {
	s := testSession(20, 20)
	s.SetTargetColor(red)
	r1 := image.Rect(1, 1, 5, 5)
	r2 := image.Rect(10, 10, 16, 14)
	ctx := context.Background()
	if err := s.OnFrame(ctx, frameWith(20, 20, black, map[image.Rectangle]cptypes.Color{r1: red})); err != nil {
		t.Fatal(err)
	}
	if err := s.OnFrame(ctx, frameWith(20, 20, black, map[image.Rectangle]cptypes.Color{r2: red})); err != nil {
		t.Fatal(err)
	}

	got := painted(s)
	want := 16 + 24
	if len(got) != want {
		t.Errorf("have %d painted pixels, want %d", len(got), want)
	}
	for _, r := range []image.Rectangle{r1, r2} {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if c := s.Canvas().NRGBAAt(x, y); c != DefaultBrushColor.NRGBA() {
					t.Errorf("pixel (%d,%d): have %v, want brush color", x, y, c)
				}
			}
		}
	}
}

func TestOnlyLargestRegionPainted(t *testing.T) {
	s := testSession(30, 10)
	s.SetTargetColor(red)
	small := image.Rect(0, 0, 3, 3)
	big := image.Rect(10, 0, 20, 10)
	f := frameWith(30, 10, black, map[image.Rectangle]cptypes.Color{small: red, big: red})
	if err := s.OnFrame(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	got := painted(s)
	if len(got) != 100 || got[image.Pt(0, 0)] {
		t.Errorf("have %d painted pixels, want only the 100 pixel region", len(got))
	}
	brush, st := s.Brush()
	if st != Found || len(brush) != 100 {
		t.Errorf("brush: have %d pixels (%v), want 100 (found)", len(brush), st)
	}
	if res := s.Result(); res == nil || len(res.Regions) != 2 || res.Target != red {
		t.Errorf("unexpected segmentation result %+v", res)
	}
}

func TestNoRegionKeepsCanvas(t *testing.T) {
	s := testSession(10, 10)
	s.SetTargetColor(red)
	ctx := context.Background()
	s.OnFrame(ctx, frameWith(10, 10, black, map[image.Rectangle]cptypes.Color{image.Rect(0, 0, 3, 3): red}))
	before := len(painted(s))
	s.OnFrame(ctx, frameWith(10, 10, black, nil))
	if after := len(painted(s)); after != before || before != 9 {
		t.Errorf("painted pixels: before %d after %d, want 9 both", before, after)
	}
	if _, st := s.Brush(); st != NoRegion {
		t.Errorf("brush state: have %v, want %v", st, NoRegion)
	}
}

func TestRetargetKeepsCanvas(t *testing.T) {
	s := testSession(10, 10)
	ctx := context.Background()
	f := frameWith(10, 10, black, map[image.Rectangle]cptypes.Color{
		image.Rect(0, 0, 3, 3): red,
		image.Rect(5, 5, 8, 8): blue,
	})
	s.SetTargetColor(red)
	s.OnFrame(ctx, f)
	s.SetTargetColor(blue)
	s.OnFrame(ctx, f)
	got := painted(s)
	if len(got) != 18 || !got[image.Pt(0, 0)] || !got[image.Pt(7, 7)] {
		t.Errorf("have %d painted pixels, want both squares", len(got))
	}
}

func TestClearCanvas(t *testing.T) {
	s := testSession(10, 10)
	s.SetTargetColor(red)
	s.SetDisplayMode(cptypes.Painting)
	s.OnFrame(context.Background(), frameWith(10, 10, red, nil))
	s.ClearCanvas()
	if n := len(painted(s)); n != 0 {
		t.Errorf("have %d painted pixels after clear, want 0", n)
	}
	if s.Canvas().Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("canvas bounds changed: %v", s.Canvas().Bounds())
	}
	if c, ok := s.Target(); !ok || c != red {
		t.Errorf("target lost after clear")
	}
	if s.DisplayMode() != cptypes.Painting {
		t.Errorf("display mode changed after clear")
	}
}

func TestDisplayModes(t *testing.T) {
	s := testSession(10, 10)
	if s.DisplayMode() != cptypes.Live {
		t.Errorf("initial mode: have %v, want live", s.DisplayMode())
	}
	if s.View() != nil {
		t.Errorf("view before any frame should be nil")
	}
	f := frameWith(10, 10, red, nil)
	s.OnFrame(context.Background(), f)

	s.SetDisplayMode(cptypes.Recolored)
	if s.View() != f.Image {
		t.Errorf("recolored view before segmentation should fall back to the frame")
	}
	s.SetDisplayMode(cptypes.Painting)
	if s.View() != image.Image(s.Canvas()) {
		t.Errorf("painting view is not the canvas")
	}

	s.SetTargetColor(red)
	s.OnFrame(context.Background(), f)
	s.SetDisplayMode(cptypes.Recolored)
	rec, ok := s.Recolored()
	if !ok || s.View() != rec {
		t.Errorf("recolored view is not the recolored image")
	}
	s.SetDisplayMode(cptypes.Live)
	if s.View() != f.Image {
		t.Errorf("live view is not the frame")
	}
}

func TestPick(t *testing.T) {
	s := testSession(10, 10)
	if _, err := s.Pick(1, 1); !errors.Is(err, ErrNoFrame) {
		t.Errorf("pick before frame: have %v, want ErrNoFrame", err)
	}
	s.OnFrame(context.Background(), frameWith(10, 10, black, map[image.Rectangle]cptypes.Color{image.Rect(2, 2, 6, 6): red}))
	if _, err := s.Pick(10, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("pick outside: have %v, want ErrOutOfBounds", err)
	}
	c, err := s.Pick(3, 3)
	if err != nil || c != red {
		t.Fatalf("pick: have (%v, %v), want red", c, err)
	}
	if tc, ok := s.Target(); !ok || tc != red {
		t.Errorf("target not set by pick")
	}
	if s.DisplayMode() != cptypes.Recolored {
		t.Errorf("pick should switch to recolored view")
	}
}

func TestBrushColorOverwrites(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BrushColor = cptypes.Color{R: 10, G: 200, B: 30}
	cfg.Colors = region.SeededColors(1)
	s := NewSession(10, 10, cfg)
	s.SetTargetColor(red)
	s.OnFrame(context.Background(), frameWith(10, 10, red, nil))
	if c := s.Canvas().NRGBAAt(4, 4); c != cfg.BrushColor.NRGBA() {
		t.Errorf("have %v, want %v", c, cfg.BrushColor.NRGBA())
	}
}

func TestFrameBudgetSkipsPainting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameBudget = time.Nanosecond
	s := NewSession(200, 200, cfg)
	s.SetTargetColor(red)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if err := s.OnFrame(ctx, frameWith(200, 200, red, nil)); err != nil {
		t.Fatalf("over-budget frame returned %v, want nil", err)
	}
	if n := len(painted(s)); n != 0 {
		t.Errorf("have %d painted pixels, want 0", n)
	}
	if _, st := s.Brush(); st != NotSegmented {
		t.Errorf("brush state: have %v, want %v", st, NotSegmented)
	}
}

func TestNilFrame(t *testing.T) {
	if err := testSession(2, 2).OnFrame(context.Background(), cptypes.Frame{}); err == nil {
		t.Errorf("nil image accepted")
	}
}
