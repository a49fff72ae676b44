package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded glyph quad shader source.
//
//go:embed shaders/glyph.wgsl
var glyphShaderSource string

// glyphVertexStride is the byte stride per vertex in the glyph pipeline.
// Layout per vertex:
//
//	position (vec2<f32>) =  8 bytes (location 0)
//	uv       (vec2<f32>) =  8 bytes (location 1)
//	color    (vec4<f32>) = 16 bytes (location 2)
//
// Total = 32 bytes per vertex.
const glyphVertexStride = 32

// GlyphPipeline owns the GPU objects for drawing terminal quads: glyph
// quads sampling the coverage atlas, and solid quads (backgrounds,
// cursor, underlines) sampling its reserved white pixel. One pipeline,
// one draw path.
type GlyphPipeline struct {
	device hal.Device

	shader      hal.ShaderModule
	atlasLayout hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	sampler     hal.Sampler
}

// CompileToSPIRV compiles WGSL source to SPIR-V words through naga.
func CompileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// NewGlyphPipeline compiles the glyph shader and builds the render
// pipeline targeting the given surface format.
func NewGlyphPipeline(dev *Device, surfaceFormat gputypes.TextureFormat) (*GlyphPipeline, error) {
	p := &GlyphPipeline{device: dev.Hal()}
	if err := p.create(surfaceFormat); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *GlyphPipeline) create(surfaceFormat gputypes.TextureFormat) error {
	spirv, err := CompileToSPIRV(glyphShaderSource)
	if err != nil {
		return err
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create glyph shader module: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: coverage atlas texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	atlasLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_atlas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create glyph atlas layout: %w", err)
	}
	p.atlasLayout = atlasLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.atlasLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create glyph pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "glyph_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create glyph sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    surfaceFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create glyph pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: glyphVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// Pipeline returns the HAL render pipeline.
func (p *GlyphPipeline) Pipeline() hal.RenderPipeline { return p.pipeline }

// AtlasLayout returns the bind group layout for the atlas texture and
// sampler, for creating per-atlas bind groups.
func (p *GlyphPipeline) AtlasLayout() hal.BindGroupLayout { return p.atlasLayout }

// Sampler returns the shared linear sampler.
func (p *GlyphPipeline) Sampler() hal.Sampler { return p.sampler }

// Destroy releases all GPU objects in reverse creation order. Safe to
// call more than once.
func (p *GlyphPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.atlasLayout != nil {
		p.device.DestroyBindGroupLayout(p.atlasLayout)
		p.atlasLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
