package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("root path is not a directory")

// Scan discovers the files under opts.RootDir.
// It returns a channel of ScanResult that streams files as they are discovered.
// The channel is closed when scanning is complete. Entries that cannot be
// read are skipped.
func Scan(ctx context.Context, opts *ScanOptions) (<-chan ScanResult, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}

	absRoot, err := resolveRoot(opts.RootDir)
	if err != nil {
		return nil, err
	}
	// WalkDir does not descend into a symlinked root.
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	results := make(chan ScanResult, resultBuffer)
	go func() {
		defer close(results)
		walk(ctx, absRoot, opts, results)
	}()

	return results, nil
}

// Collect drains Scan into a slice. The first error sent on the channel
// is returned together with whatever was found before it.
func Collect(ctx context.Context, opts *ScanOptions) ([]FileInfo, error) {
	results, err := Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	var firstErr error
	for r := range results {
		if r.Error != nil {
			if firstErr == nil {
				firstErr = r.Error
			}
			continue
		}
		files = append(files, *r.File)
	}
	return files, firstErr
}

// Dirs returns every directory under root, root included, that is not
// excluded by name. Excluded directories are not descended into.
func Dirs(ctx context.Context, root string, excludeDirs []string) ([]string, error) {
	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != absRoot && IsExcluded(d.Name(), excludeDirs) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return dirs, err
	}
	return dirs, nil
}

// IsExcluded reports whether a directory base name is in the exclude list.
func IsExcluded(name string, excludeDirs []string) bool {
	for _, ex := range excludeDirs {
		if name == ex {
			return true
		}
	}
	return false
}

// ExcludedPath reports whether any element of rel (relative to the scan
// root) is an excluded directory name.
func ExcludedPath(rel string, excludeDirs []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if IsExcluded(part, excludeDirs) {
			return true
		}
	}
	return false
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, absRoot)
	}
	return absRoot, nil
}

// walk performs the actual directory traversal.
func walk(ctx context.Context, absRoot string, opts *ScanOptions, results chan<- ScanResult) {
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip entries we can't access
		}

		if path == absRoot {
			return nil
		}

		if d.IsDir() {
			if IsExcluded(d.Name(), opts.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		if opts.Extension != "" && !strings.HasSuffix(d.Name(), opts.Extension) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}

		file := &FileInfo{
			Path:    filepath.ToSlash(relPath),
			AbsPath: path,
		}
		if info, err := d.Info(); err == nil {
			file.Size = info.Size()
			file.ModTime = info.ModTime()
		}

		select {
		case results <- ScanResult{File: file}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		select {
		case results <- ScanResult{Error: err}:
		case <-ctx.Done():
		}
	}
}
