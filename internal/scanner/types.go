// Package scanner walks an extension project tree. It streams the files
// under a source directory and lists the directories a watcher should
// observe, skipping excluded directory names.
package scanner

import "time"

// FileInfo contains metadata about a discovered file.
type FileInfo struct {
	Path    string    // Relative path to the scan root, slash separated
	AbsPath string    // Absolute path
	Size    int64     // File size in bytes
	ModTime time.Time // Last modification time
}

// ScanOptions configures the scanner behavior.
type ScanOptions struct {
	// RootDir is the directory to scan.
	RootDir string

	// Extension keeps only files whose name ends with it (empty = all).
	// Matching is case-sensitive.
	Extension string

	// ExcludeDirs lists directory base names that are not descended into.
	ExcludeDirs []string
}

// ScanResult is returned from the scanner channel.
type ScanResult struct {
	File  *FileInfo
	Error error
}

// resultBuffer is the capacity of the Scan result channel.
const resultBuffer = 64
