package atlas

// Packer implements shelf-based rectangle packing for a square atlas
// surface. Simple and fast, and well suited to glyph bitmaps, whose
// heights cluster around a few values per font size.
//
// Rectangles are organized in horizontal shelves. Each shelf has a fixed
// height (the tallest item placed on it); new items go left-to-right on
// an existing shelf with enough room, otherwise a new shelf is opened
// below the last one. Allocations are permanent: the packer has no free
// operation, space is reclaimed only by Reset.
type Packer struct {
	size    int
	padding int
	shelves []shelf

	usedArea int
}

// shelf is a horizontal strip of the atlas.
type shelf struct {
	y      int // top of the strip
	height int // tallest item placed so far
	x      int // next free slot
}

// NewPacker creates a packer for a size x size surface with the given
// padding between rectangles.
func NewPacker(size, padding int) *Packer {
	return &Packer{
		size:    size,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate finds space for a w x h rectangle. It returns the top-left
// position and true, or -1, -1 and false when no space remains.
func (p *Packer) Allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	// Larger than the surface itself can never fit, on any shelf.
	if paddedW > p.size || paddedH > p.size {
		return -1, -1, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+paddedW > p.size {
			continue
		}

		if h > s.height {
			// Too tall for this shelf. The last shelf can be extended
			// downward if there is room below it.
			if i == len(p.shelves)-1 && s.y+paddedH <= p.size {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				p.usedArea += w * h
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += paddedW
		p.usedArea += w * h
		return x, y, true
	}

	// Open a new shelf below the last one.
	newY := 0
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}
	if newY+paddedH > p.size {
		return -1, -1, false
	}

	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	p.usedArea += w * h
	return 0, newY, true
}

// Reset clears all allocations, keeping the shelf capacity for reuse.
func (p *Packer) Reset() {
	p.shelves = p.shelves[:0]
	p.usedArea = 0
}

// Utilization returns the fraction of the surface covered by allocated
// rectangles, from 0.0 to 1.0.
func (p *Packer) Utilization() float64 {
	if p.size <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.size*p.size)
}

// Size returns the packer's surface dimension.
func (p *Packer) Size() int { return p.size }
