package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lightswitch/internal/models"
)

// FileMode keeps the appearance mode as "light" or "dark" in a text file.
type FileMode struct {
	path string
}

func NewFileMode(path string) *FileMode {
	return &FileMode{path: path}
}

// Get reads the file. A missing file is a read error: there is no baseline.
func (f *FileMode) Get(ctx context.Context) (models.AppearanceMode, error) {
	if err := ctx.Err(); err != nil {
		return 0, newError(OpRead, CodeTimeout, err)
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		code := CodeUnknown
		if errors.Is(err, os.ErrNotExist) {
			code = CodeUnavailable
		}
		return 0, newError(OpRead, code, err)
	}
	m, err := models.ParseAppearanceMode(string(b))
	if err != nil {
		return 0, newError(OpRead, CodeBadOutput, err)
	}
	return m, nil
}

// Set writes the mode via a temp file and rename so readers never see a partial value.
func (f *FileMode) Set(ctx context.Context, mode models.AppearanceMode) error {
	if err := ctx.Err(); err != nil {
		return newError(OpWrite, CodeTimeout, err)
	}
	if mode != models.Light && mode != models.Dark {
		return newError(OpWrite, CodeUnknown, fmt.Errorf("invalid mode %v", mode))
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newError(OpWrite, CodeUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, ".mode-*")
	if err != nil {
		return newError(OpWrite, CodeUnavailable, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(strings.ToLower(mode.String()) + "\n"); err != nil {
		_ = tmp.Close()
		return newError(OpWrite, CodeUnknown, err)
	}
	if err := tmp.Close(); err != nil {
		return newError(OpWrite, CodeUnknown, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return newError(OpWrite, CodeUnknown, err)
	}
	return nil
}
