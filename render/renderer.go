// Package render turns a vt.Screen into GPU quads.
//
// A Renderer owns the glyph atlas and its GPU texture. Each Frame walks
// the visible cells, fetches glyph slots from the atlas (rasterizing
// misses through the font), and emits a DrawList: background quads,
// glyph quads, underlines and the cursor block, all addressing the one
// atlas texture. Solid quads sample the atlas's reserved white pixel so
// the whole frame is a single pipeline and draw call.
package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/term/atlas"
	"github.com/gogpu/term/font"
	"github.com/gogpu/term/gpu"
	"github.com/gogpu/term/internal/logx"
	"github.com/gogpu/term/vt"
)

// Renderer builds per-frame draw lists for a terminal screen and keeps
// the atlas texture on the adapter in sync with the CPU-side atlas.
//
// Not safe for concurrent use.
type Renderer struct {
	face    *font.Face
	atlas   *atlas.Atlas
	adapter gpu.Adapter

	// size is the font pixel size; cell is the resulting grid geometry.
	size int
	cell font.CellMetrics

	texID   gpu.TextureID
	texSize int

	list DrawList
}

// New builds a renderer for the face at the given pixel size. The atlas
// configuration bounds the glyph cache; adapter receives the atlas
// texture uploads.
func New(face *font.Face, adapter gpu.Adapter, cfg atlas.Config, size int) (*Renderer, error) {
	cell, err := face.Metrics(size)
	if err != nil {
		return nil, fmt.Errorf("render: font metrics: %w", err)
	}
	a, err := atlas.New(cfg, face)
	if err != nil {
		return nil, fmt.Errorf("render: atlas: %w", err)
	}
	return &Renderer{
		face:    face,
		atlas:   a,
		adapter: adapter,
		size:    size,
		cell:    cell,
	}, nil
}

// CellMetrics returns the character-cell geometry frames are laid out
// with.
func (r *Renderer) CellMetrics() font.CellMetrics { return r.cell }

// AtlasTexture returns the adapter texture holding the glyph atlas, for
// binding into the draw pass. InvalidID until the first Frame.
func (r *Renderer) AtlasTexture() gpu.TextureID { return r.texID }

// Atlas exposes the glyph cache, mainly for stats.
func (r *Renderer) Atlas() *atlas.Atlas { return r.atlas }

// Frame builds the draw list for the current screen contents and brings
// the atlas texture up to date on the adapter. The returned list is
// valid until the next Frame call.
func (r *Renderer) Frame(s *vt.Screen, viewW, viewH int) (*DrawList, error) {
	if viewW <= 0 || viewH <= 0 {
		return nil, fmt.Errorf("render: invalid viewport %dx%d", viewW, viewH)
	}

	// Glyph fetches can grow the atlas, which rebinds every slot and
	// invalidates rects already emitted this frame. When that happens,
	// rebuild: the second walk hits the cache and cannot grow again.
	for {
		gen := r.atlas.Generation()
		r.list.Reset()
		r.build(s, viewW, viewH)
		if r.atlas.Generation() == gen {
			break
		}
	}

	if err := r.syncTexture(); err != nil {
		return nil, err
	}
	return &r.list, nil
}

func (r *Renderer) build(s *vt.Screen, viewW, viewH int) {
	cw, ch := r.cell.Width, r.cell.Height
	atlasFullLogged := false

	toX := func(px int) float32 { return 2*float32(px)/float32(viewW) - 1 }
	toY := func(py int) float32 { return 1 - 2*float32(py)/float32(viewH) }

	curX, curY := s.Cursor()

	// Background layer. Unmaterialized cells carry the default
	// background, which is the clear color, so only explicit
	// backgrounds need quads.
	s.EachVisible(func(row, col int, c vt.Cell) {
		if _, ok := c.BG.Palette(); !ok {
			return
		}
		r.solidQuad(toX(col*cw), toY(row*ch), toX((col+1)*cw), toY((row+1)*ch), background(c))
	})

	// Cursor block under the glyphs; the glyph on the cursor cell is
	// drawn in the background color for inverse video.
	r.solidQuad(toX(curX*cw), toY(curY*ch), toX((curX+1)*cw), toY((curY+1)*ch), defaultFG)

	// Glyphs and underlines.
	s.EachVisible(func(row, col int, c vt.Cell) {
		fg := foreground(c)
		if row == curY && col == curX {
			fg = background(c)
		}
		if c.Underline {
			thickness := max(r.size/14, 1)
			y := row*ch + r.cell.Ascent + 1
			r.solidQuad(toX(col*cw), toY(y), toX((col+1)*cw), toY(y+thickness), fg)
		}
		if c.Rune == 0 || c.Rune == ' ' {
			return
		}

		rect, ok, err := r.atlas.Get(c.Rune, r.size)
		if err != nil {
			// Atlas exhaustion; leave the cell blank this frame.
			if errors.Is(err, atlas.ErrAtlasFull) {
				if !atlasFullLogged {
					logx.Logger().Warn("render: atlas full, dropping glyphs this frame")
					atlasFullLogged = true
				}
				return
			}
			logx.Logger().Warn("render: rasterize failed",
				"rune", string(c.Rune), "error", err)
			return
		}
		if !ok {
			return
		}

		// Position the bitmap against the cell's baseline.
		x0 := col*cw + rect.BearingX
		y0 := row*ch + r.cell.Ascent - rect.BearingY
		ts := float32(r.atlas.Size())
		r.list.AppendQuad(
			toX(x0), toY(y0), toX(x0+rect.Width), toY(y0+rect.Height),
			float32(rect.X)/ts, float32(rect.Y)/ts,
			float32(rect.X+rect.Width)/ts, float32(rect.Y+rect.Height)/ts,
			fg,
		)
	})
}

// solidQuad emits a quad sampling the atlas's white pixel, so solid
// fills share the glyph pipeline.
func (r *Renderer) solidQuad(x0, y0, x1, y1 float32, color RGBA) {
	w := r.atlas.WhiteRect()
	ts := float32(r.atlas.Size())
	u := (float32(w.X) + 0.5) / ts
	v := (float32(w.Y) + 0.5) / ts
	r.list.AppendQuad(x0, y0, x1, y1, u, v, u, v, color)
}

// syncTexture pushes pending atlas changes to the adapter: recreating
// the texture when the atlas grew, full or per-rect uploads otherwise.
func (r *Renderer) syncTexture() error {
	size := r.atlas.Size()
	if r.texID == gpu.InvalidID || r.texSize != size {
		if r.texID != gpu.InvalidID {
			r.adapter.DestroyTexture(r.texID)
			r.texID = gpu.InvalidID
		}
		id, err := r.adapter.CreateTexture(size, size, gpu.TextureFormatR8)
		if err != nil {
			return fmt.Errorf("render: create atlas texture: %w", err)
		}
		r.texID = id
		r.texSize = size
		r.atlas.TakeDirty()
		return r.adapter.WriteTexture(r.texID, r.atlas.Data())
	}

	full, rects := r.atlas.TakeDirty()
	if full {
		return r.adapter.WriteTexture(r.texID, r.atlas.Data())
	}
	data := r.atlas.Data()
	for _, rect := range rects {
		sub := make([]byte, rect.Width*rect.Height)
		for row := 0; row < rect.Height; row++ {
			src := (rect.Y+row)*size + rect.X
			copy(sub[row*rect.Width:(row+1)*rect.Width], data[src:src+rect.Width])
		}
		if err := r.adapter.WriteTextureRegion(r.texID, rect.X, rect.Y, rect.Width, rect.Height, sub); err != nil {
			return fmt.Errorf("render: upload atlas region: %w", err)
		}
	}
	return nil
}

// Close releases the atlas texture. The adapter and face belong to the
// caller.
func (r *Renderer) Close() error {
	if r.texID != gpu.InvalidID {
		r.adapter.DestroyTexture(r.texID)
		r.texID = gpu.InvalidID
	}
	return nil
}
