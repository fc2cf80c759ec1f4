package checklist

import (
	"context"
	"fmt"
	"strings"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// checkSecurity looks for the security helpers in the security source file.
func checkSecurity(_ context.Context, p *Project) Outcome {
	sc := p.Config.Security

	content, err := p.ReadText(sc.File)
	if err != nil {
		return fail(readErrorCode(err), fmt.Sprintf("Error testing security: %v", err), err)
	}

	var missing []string
	for _, feature := range sc.Features {
		if !strings.Contains(content, feature) {
			missing = append(missing, feature)
		}
	}
	if len(missing) > 0 {
		return failMissing(exterrors.ErrCodeMissingContent,
			"Missing security features: "+strings.Join(missing, ", "), missing)
	}

	if !strings.Contains(content, sc.Algorithm) {
		return failMissing(exterrors.ErrCodeMissingContent,
			"Missing strong encryption algorithm", []string{sc.Algorithm})
	}

	if !strings.Contains(strings.ToLower(content), strings.ToLower(sc.SanitizeMarker)) {
		return failMissing(exterrors.ErrCodeMissingContent,
			"Missing input sanitization", []string{sc.SanitizeMarker})
	}

	return pass("Security features implemented")
}
