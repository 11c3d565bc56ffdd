package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"dinobot/internal/frame"
	"dinobot/internal/screen"
)

func savedFrame(t *testing.T, draw func(f *frame.Frame)) string {
	t.Helper()
	f, err := frame.Filled(320, 200, 247, 247, 247, 255)
	if err != nil {
		t.Fatal(err)
	}
	draw(f)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := f.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectReportsJump(t *testing.T) {
	path := savedFrame(t, func(f *frame.Frame) {
		for y := 60; y < 100; y++ {
			f.Set(122, y, 83, 83, 83, 255)
		}
	})

	var out bytes.Buffer
	if err := inspect(&out, path, "adaptive", 1.0); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	// порог 160*0.3 = 48, препятствие на 40 px
	for _, want := range []string{"ground y=100", "obstacle: airborne distance=40", "jump=true"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output has no %q:\n%s", want, got)
		}
	}
}

func TestInspectEmptyFrame(t *testing.T) {
	path := savedFrame(t, func(*frame.Frame) {})
	var out bytes.Buffer
	if err := inspect(&out, path, "balanced", 1.0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "obstacle: none") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestInspectUnknownProfile(t *testing.T) {
	path := savedFrame(t, func(*frame.Frame) {})
	if err := inspect(&bytes.Buffer{}, path, "turbo", 1.0); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestLocateFromPNG(t *testing.T) {
	path := savedFrame(t, func(f *frame.Frame) {
		for x := 20; x < 300; x++ {
			f.Set(x, 150, 83, 83, 83, 255)
		}
	})
	var out bytes.Buffer
	if err := locate(&out, path, screen.LocateOptions{Threshold: 100, MinRun: 200, Above: 100, Below: 10}); err != nil {
		t.Fatal(err)
	}
	if want := "x=20 y=50 width=280 height=110"; !strings.Contains(out.String(), want) {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}
