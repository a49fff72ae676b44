// Package gpu defines the seam between the terminal's CPU-side state and a
// concrete GPU backend.
//
// The renderer talks to an Adapter: an ID-based texture surface it uploads
// the glyph atlas through. Keeping the interface here, free of backend
// imports, lets tests drive the renderer with an in-memory adapter and
// keeps the wgpu backend swappable.
package gpu

// TextureID identifies a texture owned by an Adapter.
type TextureID uint64

// InvalidID is the zero TextureID, never assigned to a live texture.
const InvalidID TextureID = 0

// TextureFormat is the pixel format of an adapter texture.
type TextureFormat uint8

const (
	// TextureFormatR8 is single-channel 8-bit, used for the glyph atlas.
	TextureFormatR8 TextureFormat = iota

	// TextureFormatRGBA8 is standard 8-bit-per-channel RGBA.
	TextureFormatRGBA8
)

// BytesPerPixel returns the pixel size of the format in bytes.
func (f TextureFormat) BytesPerPixel() int {
	if f == TextureFormatR8 {
		return 1
	}
	return 4
}

// Adapter is the device surface the renderer uploads textures through.
//
// Implementations are expected to be used from the render thread only.
type Adapter interface {
	// CreateTexture allocates a width x height texture and returns its ID.
	CreateTexture(width, height int, format TextureFormat) (TextureID, error)

	// WriteTexture replaces the full contents of a texture. data must hold
	// width*height*BytesPerPixel bytes, tightly packed.
	WriteTexture(id TextureID, data []byte) error

	// WriteTextureRegion updates the w x h region at (x, y). data must
	// hold w*h*BytesPerPixel bytes, tightly packed.
	WriteTextureRegion(id TextureID, x, y, w, h int, data []byte) error

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// Close releases every resource the adapter still holds.
	Close() error
}
