package editor

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// MaxFileSize bounds uploaded source files.
const MaxFileSize = 1 << 20

var (
	allowedExtensions = map[string]bool{".js": true, ".ts": true, ".tsx": true}
	allowedMIMETypes  = map[string]bool{
		"text/javascript":          true,
		"application/javascript":   true,
		"application/x-javascript": true,
	}
)

// AllowedExtensions is the accept list for file pickers.
const AllowedExtensions = ".js,.ts,.tsx"

// ValidateFile accepts JavaScript/TypeScript sources by extension or declared
// MIME type. The content itself must sniff as text.
func ValidateFile(name, contentType string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(name))
	declared := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if !allowedExtensions[ext] && !allowedMIMETypes[strings.ToLower(declared)] {
		return ErrUnsupportedFile
	}
	if len(data) > MaxFileSize {
		return ErrUnsupportedFile
	}
	if len(data) > 0 && !isText(mimetype.Detect(data)) {
		return ErrUnsupportedFile
	}
	return nil
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
