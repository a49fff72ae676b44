// Package atlas caches rasterized glyphs in a single-channel texture
// surface shared by every glyph drawn on screen.
//
// The atlas keeps its pixel data on the CPU; a renderer uploads the dirty
// regions reported by TakeDirty to its GPU texture before drawing. When
// the surface fills up it grows by doubling (up to a configured maximum)
// and re-rasterizes everything it holds, so callers must treat a
// generation change as invalidating every previously returned rectangle.
package atlas

import (
	"fmt"

	"github.com/gogpu/term/internal/logx"
)

// Config holds atlas configuration.
type Config struct {
	// InitialSize is the starting edge length in pixels of the square
	// atlas surface. Default: 256.
	InitialSize int

	// MaxSize caps growth. Once reached, glyphs that cannot be packed
	// fail with ErrAtlasFull. Default: 4096.
	MaxSize int

	// Capacity is the maximum number of cached glyphs. When exceeded,
	// the least recently used entry is dropped from the lookup table.
	// Default: 1024.
	Capacity int

	// Padding is the gap in pixels between packed glyphs, preventing
	// bleed when sampling with filtering. Default: 1.
	Padding int
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		InitialSize: 256,
		MaxSize:     4096,
		Capacity:    1024,
		Padding:     1,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.InitialSize <= 0 {
		return &ConfigError{Field: "InitialSize", Reason: "must be positive"}
	}
	if c.MaxSize < c.InitialSize {
		return &ConfigError{Field: "MaxSize", Reason: "must be >= InitialSize"}
	}
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Reason: "must be positive"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must not be negative"}
	}
	return nil
}

// Mask is a tightly packed single-channel coverage bitmap produced by a
// Rasterizer. BearingX and BearingY place the bitmap relative to the text
// origin: BearingX to the right of it, BearingY up from the baseline to
// the bitmap's top edge.
type Mask struct {
	Pix      []byte
	Width    int
	Height   int
	BearingX int
	BearingY int
}

// Empty reports whether the mask covers no pixels (whitespace glyphs).
func (m Mask) Empty() bool { return m.Width <= 0 || m.Height <= 0 }

// Rasterizer produces coverage masks for glyphs. The atlas calls it on
// cache misses and again for every cached glyph when the surface grows.
type Rasterizer interface {
	Rasterize(r rune, size int) (Mask, error)
}

// Rect is a glyph's slot in the atlas: pixel coordinates of the packed
// bitmap plus the bearing needed to place it relative to the baseline.
// Rects are invalidated by growth; compare Generation before reuse across
// frames.
type Rect struct {
	X, Y          int
	Width, Height int
	BearingX      int
	BearingY      int
}

type key struct {
	r    rune
	size int
}

type entry struct {
	key  key
	rect Rect

	// prev and next for the LRU doubly-linked list.
	prev *entry
	next *entry
}

// Stats holds atlas cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Growths   uint64
}

// Atlas is a glyph cache backed by a single-channel pixel surface.
//
// Lookups are LRU-bounded: once Capacity entries are cached, inserting a
// new glyph drops the least recently used one from the lookup table. The
// packer keeps the dropped glyph's pixels reserved; that space is only
// reclaimed when growth rebuilds the surface from the live entries.
//
// Atlas is not safe for concurrent use. All calls are expected on the
// render thread.
type Atlas struct {
	cfg    Config
	rast   Rasterizer
	packer *Packer

	size int
	data []byte

	entries map[key]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
	count   int

	generation uint64

	dirtyFull  bool
	dirtyRects []Rect

	white Rect

	stats Stats
}

// New creates an atlas using r to produce glyph bitmaps.
func New(cfg Config, r Rasterizer) (*Atlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &ConfigError{Field: "Rasterizer", Reason: "must not be nil"}
	}
	a := &Atlas{
		cfg:     cfg,
		rast:    r,
		size:    cfg.InitialSize,
		data:    make([]byte, cfg.InitialSize*cfg.InitialSize),
		packer:  NewPacker(cfg.InitialSize, cfg.Padding),
		entries: make(map[key]*entry, cfg.Capacity),
	}
	a.reserveWhite()
	a.dirtyFull = true
	return a, nil
}

// reserveWhite claims a 1x1 opaque pixel so solid quads (backgrounds,
// underlines, the cursor) can sample the same texture as glyphs. Called
// on a fresh packer, it cannot fail.
func (a *Atlas) reserveWhite() {
	x, y, _ := a.packer.Allocate(1, 1)
	a.data[y*a.size+x] = 0xFF
	a.white = Rect{X: x, Y: y, Width: 1, Height: 1}
}

// WhiteRect returns the reserved opaque pixel.
func (a *Atlas) WhiteRect() Rect { return a.white }

// Size returns the current edge length of the square surface.
func (a *Atlas) Size() int { return a.size }

// Data returns the surface pixels, row-major, one byte per pixel. The
// slice is replaced on growth; do not retain it across Get calls.
func (a *Atlas) Data() []byte { return a.data }

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int { return a.count }

// Generation increments every time the surface is rebuilt. Rectangles
// obtained under an older generation must be discarded.
func (a *Atlas) Generation() uint64 { return a.generation }

// Stats returns the cache counters.
func (a *Atlas) Stats() Stats { return a.stats }

// Utilization returns the fraction of the surface covered by packed
// glyphs.
func (a *Atlas) Utilization() float64 { return a.packer.Utilization() }

// Get returns the atlas slot for r at the given pixel size, rasterizing
// and packing it on first use.
//
// The second return value reports whether the glyph occupies any pixels:
// whitespace and other empty glyphs return (Rect{}, false, nil) and are
// never cached. ErrAtlasFull is returned when the glyph cannot be packed
// at the maximum surface size; the atlas remains usable.
func (a *Atlas) Get(r rune, size int) (Rect, bool, error) {
	k := key{r: r, size: size}
	if e, ok := a.entries[k]; ok {
		a.moveToFront(e)
		a.stats.Hits++
		return e.rect, true, nil
	}
	a.stats.Misses++

	m, err := a.rast.Rasterize(r, size)
	if err != nil {
		return Rect{}, false, fmt.Errorf("atlas: rasterize %q: %w", r, err)
	}
	if m.Empty() {
		return Rect{}, false, nil
	}

	rect, err := a.place(m)
	if err != nil {
		return Rect{}, false, err
	}

	e := &entry{key: k, rect: rect}
	a.entries[k] = e
	a.addToFront(e)
	a.count++
	for a.count > a.cfg.Capacity {
		a.evictOldest()
	}
	return rect, true, nil
}

// place packs and blits a mask, growing the surface as needed.
func (a *Atlas) place(m Mask) (Rect, error) {
	x, y, ok := a.packer.Allocate(m.Width, m.Height)
	for !ok {
		if err := a.grow(); err != nil {
			return Rect{}, err
		}
		x, y, ok = a.packer.Allocate(m.Width, m.Height)
	}
	rect := Rect{
		X: x, Y: y,
		Width: m.Width, Height: m.Height,
		BearingX: m.BearingX, BearingY: m.BearingY,
	}
	a.blit(m, x, y)
	a.markDirty(rect)
	return rect, nil
}

// grow doubles the surface and rebuilds it from the live entries. If the
// live set no longer fits after one doubling it keeps doubling up to
// MaxSize.
func (a *Atlas) grow() error {
	for newSize := a.size * 2; newSize <= a.cfg.MaxSize; newSize *= 2 {
		ok, err := a.rebuild(newSize)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrAtlasFull
}

// rebuild re-packs and re-rasterizes every cached glyph into a fresh
// surface of the given size. Returns false if the entries do not fit.
func (a *Atlas) rebuild(newSize int) (bool, error) {
	packer := NewPacker(newSize, a.cfg.Padding)
	data := make([]byte, newSize*newSize)

	oldSize, oldData, oldPacker := a.size, a.data, a.packer
	a.size, a.data, a.packer = newSize, data, packer
	a.reserveWhite()

	// Stage the new rects and apply them only once every entry has been
	// re-packed, so a failed attempt leaves the old surface intact.
	staged := make([]Rect, 0, a.count)
	for e := a.head; e != nil; e = e.next {
		m, err := a.rast.Rasterize(e.key.r, e.key.size)
		if err != nil {
			a.size, a.data, a.packer = oldSize, oldData, oldPacker
			return false, fmt.Errorf("atlas: rasterize %q during growth: %w", e.key.r, err)
		}
		x, y, ok := packer.Allocate(m.Width, m.Height)
		if !ok {
			a.size, a.data, a.packer = oldSize, oldData, oldPacker
			return false, nil
		}
		staged = append(staged, Rect{
			X: x, Y: y,
			Width: m.Width, Height: m.Height,
			BearingX: m.BearingX, BearingY: m.BearingY,
		})
		a.blit(m, x, y)
	}
	i := 0
	for e := a.head; e != nil; e = e.next {
		e.rect = staged[i]
		i++
	}

	a.generation++
	a.stats.Growths++
	a.dirtyFull = true
	a.dirtyRects = a.dirtyRects[:0]
	logx.Logger().Info("atlas: grew surface",
		"size", newSize, "glyphs", a.count, "generation", a.generation)
	return true, nil
}

func (a *Atlas) blit(m Mask, x, y int) {
	for row := 0; row < m.Height; row++ {
		src := m.Pix[row*m.Width : (row+1)*m.Width]
		dst := a.data[(y+row)*a.size+x:]
		copy(dst[:m.Width], src)
	}
}

func (a *Atlas) markDirty(r Rect) {
	if a.dirtyFull {
		return
	}
	a.dirtyRects = append(a.dirtyRects, r)
}

// TakeDirty returns and clears the pending upload state. full reports
// that the whole surface must be re-uploaded (after creation or growth);
// otherwise rects lists the regions written since the last call.
func (a *Atlas) TakeDirty() (full bool, rects []Rect) {
	full = a.dirtyFull
	rects = a.dirtyRects
	a.dirtyFull = false
	a.dirtyRects = nil
	return full, rects
}

// evictOldest drops the least recently used entry from the lookup table.
// Its pixels stay reserved in the packer until the next rebuild.
func (a *Atlas) evictOldest() {
	e := a.tail
	if e == nil {
		return
	}
	a.remove(e)
	delete(a.entries, e.key)
	a.count--
	a.stats.Evictions++
}

// addToFront adds an entry at the head of the LRU list.
func (a *Atlas) addToFront(e *entry) {
	e.prev = nil
	e.next = a.head
	if a.head != nil {
		a.head.prev = e
	}
	a.head = e
	if a.tail == nil {
		a.tail = e
	}
}

// moveToFront marks an entry as most recently used.
func (a *Atlas) moveToFront(e *entry) {
	if e == a.head {
		return
	}
	a.remove(e)
	a.addToFront(e)
}

// remove unlinks an entry from the LRU list (not from the map).
func (a *Atlas) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		a.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		a.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
