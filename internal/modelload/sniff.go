package modelload

import (
	"bytes"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

const glbMIME = "model/gltf-binary"

// glbType is registered with filetype so Match recognizes binary glTF by its "glTF" magic and version 2.
var glbType = types.NewType("glb", glbMIME)

func init() {
	filetype.AddMatcher(glbType, matchGLB)
}

func matchGLB(buf []byte) bool {
	return len(buf) >= 12 &&
		buf[0] == 'g' && buf[1] == 'l' && buf[2] == 'T' && buf[3] == 'F' &&
		buf[4] == 2 && buf[5] == 0 && buf[6] == 0 && buf[7] == 0
}

// Kind reports how data should be decoded: "glb", "gltf" (JSON) or "" when it is neither.
func Kind(data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind == glbType {
		return "glb"
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return "gltf"
	}
	return ""
}

// IsGLB reports whether data starts with a binary glTF header.
func IsGLB(data []byte) bool {
	return Kind(data) == "glb"
}
