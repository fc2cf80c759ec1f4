package checklist

import (
	"fmt"
	"strings"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// Check IDs, in run order.
const (
	IDStructure = "structure"
	IDManifest  = "manifest"
	IDCompile   = "compile"
	IDSecurity  = "security"
	IDQuality   = "quality"
	IDDocs      = "docs"
)

// DefaultChecks returns the six readiness checks in run order.
// The compile check runs the compiler through commands.
func DefaultChecks(commands CommandRunner) []Check {
	if commands == nil {
		commands = ExecRunner{}
	}
	return []Check{
		{ID: IDStructure, Name: "Project Structure", Subject: "project structure", Run: checkStructure},
		{ID: IDManifest, Name: "Package Configuration", Subject: "package.json", Run: checkManifest},
		{ID: IDCompile, Name: "TypeScript Compilation", Subject: "TypeScript compilation", Run: compileCheck(commands)},
		{ID: IDSecurity, Name: "Security Features", Subject: "security features", Run: checkSecurity},
		{ID: IDQuality, Name: "Code Quality", Subject: "code quality", Run: checkQuality},
		{ID: IDDocs, Name: "Documentation", Subject: "documentation", Run: checkDocs},
	}
}

// Select keeps the checks whose IDs are listed, preserving run order.
// An empty list keeps every check.
func Select(checks []Check, ids []string) ([]Check, error) {
	if len(ids) == 0 {
		return checks, nil
	}

	known := make(map[string]bool, len(checks))
	for _, c := range checks {
		known[c.ID] = true
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !known[id] {
			return nil, exterrors.ValidationError(fmt.Sprintf("unknown check %q", id), nil).
				WithSuggestion("Run 'extcheck list' to see available checks: " + strings.Join(IDs(checks), ", "))
		}
		want[id] = true
	}

	var selected []Check
	for _, c := range checks {
		if want[c.ID] {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// IDs returns the IDs of checks in order.
func IDs(checks []Check) []string {
	ids := make([]string, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID)
	}
	return ids
}
