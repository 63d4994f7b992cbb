//go:build !nogpu

package gpu

import (
	_ "embed"
)

// spriteShaderSource is the instanced sprite vertex+fragment shader.
//
//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// Shader entry points in sprite.wgsl.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// Vertex attribute locations in sprite.wgsl. The quad corner steps per
// vertex; the rest step per instance.
const (
	locationVertex   = 0
	locationPosition = 1
	locationCell     = 2
	locationSize     = 3
)

// Bind group 0 bindings in sprite.wgsl.
const (
	bindingView    = 0
	bindingTexture = 1
	bindingSampler = 2
)

// SpriteShaderSource returns the WGSL source of the built-in sprite shader.
func SpriteShaderSource() string {
	return spriteShaderSource
}
