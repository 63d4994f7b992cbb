//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprites"
)

// viewUniformSize is the byte size of the View uniform in sprite.wgsl.
// Layout: transform (vec4<f32>) = 16 bytes + sprite (vec4<f32>) = 16 bytes.
const viewUniformSize = 32

// SpritePipeline owns the GPU objects shared by every sprite draw: shader
// module, bind group layout, pipeline layout, render pipeline and sampler.
//
// The render pipeline is built for a single color target format and is
// rebuilt when a different format is requested.
//
// Architecture:
//
//	Renderer owns per-renderer buffers (quad, instance, uniform) and textures
//	SpritePipeline owns shader, layouts, pipeline, sampler
//	the bind group (uniform + atlas texture + sampler) is owned by Renderer
type SpritePipeline struct {
	device hal.Device

	shader     *Shader
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	format gputypes.TextureFormat
	filter gputypes.FilterMode
}

// NewSpritePipeline creates a pipeline for the given shader. GPU objects
// are not created until ensurePipeline is called. A nil shader selects the
// built-in sprite shader.
func NewSpritePipeline(device hal.Device, shader *Shader, filter gputypes.FilterMode) *SpritePipeline {
	return &SpritePipeline{
		device: device,
		shader: shader,
		filter: filter,
	}
}

// ensurePipeline creates the pipeline objects for format if they do not
// exist yet. Calling it again with the same format is a no-op.
func (p *SpritePipeline) ensurePipeline(format gputypes.TextureFormat) error {
	if p.pipeline != nil && p.format == format {
		return nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.module == nil {
		if err := p.createLayouts(); err != nil {
			p.destroyPipeline()
			return err
		}
	}
	if err := p.createRenderPipeline(format); err != nil {
		return err
	}
	p.format = format
	slogger().Debug("gpu: sprite pipeline ready", "format", format)
	return nil
}

// createLayouts compiles the shader and creates the format-independent
// objects.
func (p *SpritePipeline) createLayouts() error {
	if p.shader == nil {
		shader, err := CompileShader("sprite.wgsl", spriteShaderSource)
		if err != nil {
			return err
		}
		p.shader = shader
	}

	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{WGSL: p.shader.Source},
	})
	if err != nil {
		return fmt.Errorf("create sprite shader module: %w", err)
	}
	p.module = module

	// Bind group layout:
	//   Binding 0: View uniform (vertex)
	//   Binding 1: atlas texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindingView,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    bindingTexture,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    bindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    p.filter,
		MinFilter:    p.filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sprite sampler: %w", err)
	}
	p.sampler = sampler
	return nil
}

// createRenderPipeline creates the render pipeline with premultiplied alpha
// blending for the given color target format.
func (p *SpritePipeline) createRenderPipeline(format gputypes.TextureFormat) error {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: vertexEntryPoint,
			Buffers:    spriteVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
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
		return fmt.Errorf("create sprite pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *SpritePipeline) Destroy() {
	p.destroyPipeline()
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *SpritePipeline) destroyPipeline() {
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
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
	p.format = gputypes.TextureFormatUndefined
}

// spriteVertexLayout returns the two vertex buffer layouts of the sprite
// pipeline. Matches VertexInput in sprite.wgsl:
//
//	slot 0, step vertex:   location 0 vertex   (vec2<f32>)
//	slot 1, step instance: location 1 position (vec2<f32>, offset 0)
//	                       location 2 cell     (vec2<f32>, offset 8)
//	                       location 3 size     (vec2<f32>, offset 16)
func spriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: sprites.QuadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: locationVertex},
			},
		},
		{
			ArrayStride: sprites.InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: sprites.PositionOffset, ShaderLocation: locationPosition},
				{Format: gputypes.VertexFormatFloat32x2, Offset: sprites.AtlasOffsetOffset, ShaderLocation: locationCell},
				{Format: gputypes.VertexFormatFloat32x2, Offset: sprites.AtlasSizeOffset, ShaderLocation: locationSize},
			},
		},
	}
}
