package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/term/gpu"
	"github.com/gogpu/term/internal/logx"
)

// Adapter implements gpu.Adapter on a HAL device. Textures are addressed
// by ID so the renderer never holds backend handles.
type Adapter struct {
	dev *Device

	textures map[gpu.TextureID]*texture
	nextID   gpu.TextureID
}

type texture struct {
	tex    hal.Texture
	width  int
	height int
	format gpu.TextureFormat
}

// NewAdapter wraps a Device as a gpu.Adapter. Closing the adapter closes
// the device.
func NewAdapter(dev *Device) *Adapter {
	return &Adapter{
		dev:      dev,
		textures: make(map[gpu.TextureID]*texture),
		nextID:   1,
	}
}

func halFormat(f gpu.TextureFormat) gputypes.TextureFormat {
	if f == gpu.TextureFormatR8 {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// CreateTexture allocates a sampleable texture the queue can copy into.
func (a *Adapter) CreateTexture(width, height int, format gpu.TextureFormat) (gpu.TextureID, error) {
	if width <= 0 || height <= 0 {
		return gpu.InvalidID, fmt.Errorf("wgpu: invalid texture size %dx%d", width, height)
	}
	tex, err := a.dev.Hal().CreateTexture(&hal.TextureDescriptor{
		Label: "term-texture",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        halFormat(format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create %dx%d texture: %w", width, height, err)
	}

	id := a.nextID
	a.nextID++
	a.textures[id] = &texture{tex: tex, width: width, height: height, format: format}
	logx.Logger().Debug("wgpu: texture created", "id", id, "width", width, "height", height)
	return id, nil
}

// WriteTexture replaces the full contents of a texture.
func (a *Adapter) WriteTexture(id gpu.TextureID, data []byte) error {
	t, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("wgpu: write to unknown texture %d", id)
	}
	return a.write(t, 0, 0, t.width, t.height, data)
}

// WriteTextureRegion updates the w x h region at (x, y) from tightly
// packed data.
func (a *Adapter) WriteTextureRegion(id gpu.TextureID, x, y, w, h int, data []byte) error {
	t, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("wgpu: write to unknown texture %d", id)
	}
	if x < 0 || y < 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("wgpu: region (%d,%d %dx%d) outside %dx%d texture",
			x, y, w, h, t.width, t.height)
	}
	return a.write(t, x, y, w, h, data)
}

func (a *Adapter) write(t *texture, x, y, w, h int, data []byte) error {
	bpp := t.format.BytesPerPixel()
	if len(data) != w*h*bpp {
		return fmt.Errorf("wgpu: %d bytes for %dx%d upload, want %d",
			len(data), w, h, w*h*bpp)
	}
	return a.dev.Queue().WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * bpp),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)
}

// HalTexture returns the HAL handle behind an ID, for binding into a
// render pass. Returns nil for unknown IDs.
func (a *Adapter) HalTexture(id gpu.TextureID) hal.Texture {
	t, ok := a.textures[id]
	if !ok {
		return nil
	}
	return t.tex
}

// DestroyTexture releases a texture. Unknown IDs are ignored.
func (a *Adapter) DestroyTexture(id gpu.TextureID) {
	t, ok := a.textures[id]
	if !ok {
		return
	}
	a.dev.Hal().DestroyTexture(t.tex)
	delete(a.textures, id)
}

// Close releases every texture and then the device.
func (a *Adapter) Close() error {
	for id, t := range a.textures {
		a.dev.Hal().DestroyTexture(t.tex)
		delete(a.textures, id)
	}
	return a.dev.Close()
}

var _ gpu.Adapter = (*Adapter)(nil)
