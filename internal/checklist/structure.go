package checklist

import (
	"context"
	"strings"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// checkStructure fails when any required path is absent.
func checkStructure(_ context.Context, p *Project) Outcome {
	var missing []string
	for _, rel := range p.Config.Structure.RequiredFiles {
		if !p.Exists(rel) {
			missing = append(missing, rel)
		}
	}

	if len(missing) > 0 {
		return failMissing(exterrors.ErrCodeFileNotFound,
			"Missing files: "+strings.Join(missing, ", "), missing)
	}
	return pass("All required files present")
}
