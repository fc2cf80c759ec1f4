package checklist

import (
	"context"
	"fmt"
	"strings"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
	"github.com/devboost-pro/extcheck/internal/scanner"
)

const exportPrefix = "export function "

// checkQuality counts source files and checks the entry point exports.
func checkQuality(ctx context.Context, p *Project) Outcome {
	qc := p.Config.Quality

	count, scanErr := countSourceFiles(ctx, p.Path(qc.SourceDir), qc.Extension)
	if count < qc.MinFiles {
		return fail(exterrors.ErrCodeBelowThreshold,
			fmt.Sprintf("Expected at least %d TypeScript files, found %d", qc.MinFiles, count), scanErr)
	}

	content, err := p.ReadText(qc.EntryFile)
	if err != nil {
		return fail(readErrorCode(err), fmt.Sprintf("Error testing code quality: %v", err), err)
	}

	for _, export := range qc.RequiredExports {
		if !strings.Contains(content, export) {
			label := strings.TrimPrefix(export, exportPrefix)
			return failMissing(exterrors.ErrCodeMissingContent,
				fmt.Sprintf("Missing %s function export", label), []string{export})
		}
	}

	return pass(fmt.Sprintf("Code quality checks passed (%d TypeScript files)", count))
}

// countSourceFiles counts files ending in ext under dir. A missing or
// unreadable dir has no files; the scan error is returned for logging.
func countSourceFiles(ctx context.Context, dir, ext string) (int, error) {
	files, err := scanner.Collect(ctx, &scanner.ScanOptions{RootDir: dir, Extension: ext})
	return len(files), err
}
