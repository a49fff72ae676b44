// Package font loads a monospace font and rasterizes glyphs into the
// single-channel coverage masks the atlas caches.
//
// Parsing goes through go-text/typesetting, which validates the file and
// answers rune coverage queries; rasterization uses x/image's opentype
// renderer. One Face serves any number of pixel sizes, caching the
// size-specific rasterizer faces it builds.
package font

import (
	"bytes"
	"fmt"
	"image"
	"os"

	gotext "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/term/atlas"
)

// CellMetrics describes the character-cell geometry of a face at one
// pixel size. A terminal grid is sized by dividing the window by these.
type CellMetrics struct {
	// Width is the advance of a cell in pixels. Monospace fonts advance
	// every glyph by this amount.
	Width int

	// Height is the line height in pixels.
	Height int

	// Ascent is the distance from the top of the cell to the baseline.
	// Glyph bitmaps are positioned relative to it.
	Ascent int
}

// Face is a loaded font ready for coverage queries and rasterization.
//
// Face implements atlas.Rasterizer. It is not safe for concurrent use.
type Face struct {
	font *gotext.Font
	otf  *opentype.Font

	// faces caches the per-pixel-size rasterizer faces.
	faces map[int]xfont.Face
}

// Load reads and parses a font file.
func Load(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font: read %s: %w", path, err)
	}
	f, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", path, err)
	}
	return f, nil
}

// New parses TTF/OTF font data.
func New(data []byte) (*Face, error) {
	parsed, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	return &Face{
		font:  parsed.Font,
		otf:   otf,
		faces: make(map[int]xfont.Face),
	}, nil
}

// Covers reports whether the font has a glyph for r.
func (f *Face) Covers(r rune) bool {
	_, ok := f.font.NominalGlyph(r)
	return ok
}

// face returns the cached rasterizer face for a pixel size.
func (f *Face) face(size int) (xfont.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font: face at %dpx: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Metrics returns the character-cell geometry at a pixel size.
func (f *Face) Metrics(size int) (CellMetrics, error) {
	face, err := f.face(size)
	if err != nil {
		return CellMetrics{}, err
	}
	m := face.Metrics()
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		adv = m.Height / 2
	}
	return CellMetrics{
		Width:  adv.Ceil(),
		Height: m.Height.Ceil(),
		Ascent: m.Ascent.Ceil(),
	}, nil
}

// Rasterize renders r at the given pixel size into a tightly packed
// coverage mask. Glyphs without ink (spaces, uncovered runes) return an
// empty mask. Implements atlas.Rasterizer.
func (f *Face) Rasterize(r rune, size int) (atlas.Mask, error) {
	face, err := f.face(size)
	if err != nil {
		return atlas.Mask{}, err
	}

	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		// Not in the font; the cell stays blank.
		return atlas.Mask{}, nil
	}

	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return atlas.Mask{}, nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &xfont.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		// Shift so the glyph's bounding box lands at the mask origin.
		Dot: fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	d.DrawString(string(r))

	pix := mask.Pix
	if mask.Stride != w {
		pix = make([]byte, w*h)
		for row := 0; row < h; row++ {
			copy(pix[row*w:(row+1)*w], mask.Pix[row*mask.Stride:])
		}
	}
	return atlas.Mask{
		Pix:      pix,
		Width:    w,
		Height:   h,
		BearingX: minX,
		BearingY: -minY,
	}, nil
}

// Close releases the cached rasterizer faces.
func (f *Face) Close() error {
	for size, face := range f.faces {
		if err := face.Close(); err != nil {
			return fmt.Errorf("font: close face at %dpx: %w", size, err)
		}
		delete(f.faces, size)
	}
	return nil
}

var _ atlas.Rasterizer = (*Face)(nil)
