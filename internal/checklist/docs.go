package checklist

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// checkDocs checks README sections and length.
// Length counts code points after newline normalisation.
func checkDocs(_ context.Context, p *Project) Outcome {
	dc := p.Config.Docs

	content, err := p.ReadText(dc.Readme)
	if err != nil {
		return fail(readErrorCode(err), fmt.Sprintf("Error testing documentation: %v", err), err)
	}

	var missing []string
	for _, section := range dc.Sections {
		if !strings.Contains(content, section) {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		return failMissing(exterrors.ErrCodeMissingContent,
			"Missing README sections: "+strings.Join(missing, ", "), missing)
	}

	if utf8.RuneCountInString(content) < dc.MinLength {
		return fail(exterrors.ErrCodeBelowThreshold,
			"README too short - needs more comprehensive documentation", nil)
	}

	return pass("Documentation is comprehensive")
}
