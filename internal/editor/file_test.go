package editor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	src := []byte("const a = obj.b.c;\n")

	tests := []struct {
		name        string
		file        string
		contentType string
		data        []byte
		ok          bool
	}{
		{"js extension", "index.js", "", src, true},
		{"ts extension", "index.TS", "", src, true},
		{"tsx extension", "view.tsx", "application/octet-stream", src, true},
		{"javascript mime", "script", "text/javascript; charset=utf-8", src, true},
		{"empty file", "empty.js", "", nil, true},
		{"png", "logo.png", "image/png", png, false},
		{"png renamed", "logo.js", "", png, false},
		{"jsx not allowed", "view.jsx", "", src, false},
		{"json", "package.json", "application/json", []byte(`{"a":1}`), false},
		{"too large", "big.js", "", bytes.Repeat([]byte("a"), MaxFileSize+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.file, tt.contentType, tt.data)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnsupportedFile)
			}
		})
	}
}
