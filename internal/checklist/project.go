package checklist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/devboost-pro/extcheck/internal/config"
	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// ErrInvalidEncoding is returned by ReadText for files that are not UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8 text")

// Project is the extension directory under check.
// Every relative path is resolved against Root; the working directory is never changed.
type Project struct {
	Root   string
	Config *config.Config
}

// NewProject resolves root to an absolute directory.
func NewProject(root string, cfg *config.Config) (*Project, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, exterrors.New(exterrors.ErrCodeDirUnreadable, "failed to resolve project directory", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, exterrors.New(exterrors.ErrCodeDirUnreadable,
			fmt.Sprintf("project directory %s is not accessible", abs), err).
			WithSuggestion("Pass the extension root with --dir")
	}
	if !info.IsDir() {
		return nil, exterrors.New(exterrors.ErrCodeDirUnreadable,
			fmt.Sprintf("project path %s is not a directory", abs), nil).
			WithSuggestion("Pass the extension root with --dir")
	}

	return &Project{Root: abs, Config: cfg}, nil
}

// Path returns the absolute path of a slash-separated relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists. Directories count.
func (p *Project) Exists(rel string) bool {
	_, err := os.Stat(p.Path(rel))
	return err == nil
}

// ReadText reads rel as UTF-8 text with \r\n and lone \r normalised to \n.
func (p *Project) ReadText(rel string) (string, error) {
	data, err := os.ReadFile(p.Path(rel))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read %s: %w", rel, ErrInvalidEncoding)
	}
	return normalizeNewlines(string(data)), nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// readErrorCode maps a ReadText error onto an error code.
func readErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return exterrors.ErrCodeFileEncoding
	case errors.Is(err, fs.ErrNotExist):
		return exterrors.ErrCodeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return exterrors.ErrCodeFilePermission
	default:
		return exterrors.ErrCodeInternal
	}
}
