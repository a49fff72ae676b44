package atlas

import (
	"math/rand"
	"testing"
)

type allocRect struct {
	x, y, w, h int
}

func overlaps(a, b allocRect) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h
}

func TestPackerRectsInBoundsAndDisjoint(t *testing.T) {
	const size = 128
	p := NewPacker(size, 1)
	rng := rand.New(rand.NewSource(1))

	var got []allocRect
	for {
		w := rng.Intn(20) + 1
		h := rng.Intn(24) + 1
		x, y, ok := p.Allocate(w, h)
		if !ok {
			break
		}
		r := allocRect{x, y, w, h}
		if x < 0 || y < 0 || x+w > size || y+h > size {
			t.Fatalf("rect %+v escapes %dx%d surface", r, size, size)
		}
		for _, prev := range got {
			if overlaps(r, prev) {
				t.Fatalf("rect %+v overlaps %+v", r, prev)
			}
		}
		got = append(got, r)
	}
	if len(got) < 10 {
		t.Fatalf("packed only %d rects in a %dx%d surface", len(got), size, size)
	}
}

func TestPackerRejectsOversized(t *testing.T) {
	p := NewPacker(64, 1)
	if _, _, ok := p.Allocate(100, 10); ok {
		t.Error("Allocate accepted a rect wider than the surface")
	}
	if _, _, ok := p.Allocate(10, 100); ok {
		t.Error("Allocate accepted a rect taller than the surface")
	}
}

func TestPackerReset(t *testing.T) {
	p := NewPacker(32, 0)
	if _, _, ok := p.Allocate(32, 32); !ok {
		t.Fatal("full-surface allocation failed on empty packer")
	}
	if _, _, ok := p.Allocate(1, 1); ok {
		t.Fatal("allocation succeeded on a full packer")
	}
	p.Reset()
	if _, _, ok := p.Allocate(32, 32); !ok {
		t.Error("allocation failed after Reset")
	}
	if p.Utilization() != 1.0 {
		t.Errorf("utilization = %v, want 1.0", p.Utilization())
	}
}

func TestPackerExtendsLastShelf(t *testing.T) {
	p := NewPacker(64, 0)
	if _, _, ok := p.Allocate(8, 8); !ok {
		t.Fatal("first allocation failed")
	}
	// Taller than the open shelf: the last shelf may grow downward.
	x, y, ok := p.Allocate(8, 16)
	if !ok {
		t.Fatal("taller allocation failed")
	}
	if y != 0 || x != 8 {
		t.Errorf("taller rect at (%d,%d), want (8,0) on the extended shelf", x, y)
	}
}
