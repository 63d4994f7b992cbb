//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

// ShaderError reports a shader that failed to compile. Log holds the
// complete compiler diagnostics, however long.
type ShaderError struct {
	Label string
	Log   string
}

// Error implements the error interface.
func (e *ShaderError) Error() string {
	return fmt.Sprintf("gpu: shader %q failed to compile:\n%s", e.Label, e.Log)
}

// Shader is a validated WGSL shader together with its SPIR-V translation.
type Shader struct {
	Label  string
	Source string
	SPIRV  []byte
}

// Words returns the SPIR-V binary as 32-bit words, the form
// hal.ShaderSource expects.
func (s *Shader) Words() []uint32 {
	words := make([]uint32, len(s.SPIRV)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(s.SPIRV[i*4:])
	}
	return words
}

// LoadShader reads a WGSL file and compiles it. The file name is used as
// the label.
func LoadShader(path string) (*Shader, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("gpu: read shader: %w", err)
	}
	return CompileShader(path, string(src))
}

// CompileShader parses, validates and translates WGSL source. Every
// validation error is collected into the returned *ShaderError, not just
// the first one.
func CompileShader(label, source string) (*Shader, error) {
	slogger().Debug("gpu: compiling shader", "label", label, "bytes", len(source))

	if strings.TrimSpace(source) == "" {
		return nil, &ShaderError{Label: label, Log: "empty shader source"}
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, &ShaderError{Label: label, Log: err.Error()}
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, &ShaderError{Label: label, Log: err.Error()}
	}

	problems, err := naga.Validate(module)
	if err != nil {
		return nil, &ShaderError{Label: label, Log: err.Error()}
	}
	if len(problems) > 0 {
		var log strings.Builder
		for i := range problems {
			if i > 0 {
				log.WriteByte('\n')
			}
			log.WriteString(problems[i].Error())
		}
		return nil, &ShaderError{Label: label, Log: log.String()}
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, &ShaderError{Label: label, Log: err.Error()}
	}

	slogger().Debug("gpu: shader compiled", "label", label, "spirv_bytes", len(code))
	return &Shader{Label: label, Source: source, SPIRV: code}, nil
}
