package checklist

import (
	"context"
	"encoding/json"
	"fmt"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

// checkManifest validates the package.json manifest.
func checkManifest(_ context.Context, p *Project) Outcome {
	mc := p.Config.Manifest

	text, err := p.ReadText(mc.Path)
	if err != nil {
		return fail(readErrorCode(err), fmt.Sprintf("Error reading %s: %v", mc.Path, err), err)
	}

	var manifest map[string]any
	if err := json.Unmarshal([]byte(text), &manifest); err != nil {
		return fail(exterrors.ErrCodeManifestInvalid, fmt.Sprintf("Error reading %s: %v", mc.Path, err), err)
	}

	for _, field := range mc.RequiredFields {
		if _, ok := manifest[field]; !ok {
			return failMissing(exterrors.ErrCodeMissingField,
				"Missing required field: "+field, []string{field})
		}
	}

	contributes := asObject(manifest["contributes"])

	commands := asArray(contributes["commands"])
	if len(commands) < mc.MinCommands {
		return fail(exterrors.ErrCodeBelowThreshold,
			fmt.Sprintf("Expected at least %d commands, found %d", mc.MinCommands, len(commands)), nil)
	}

	configuration := asObject(contributes["configuration"])
	if !truthy(configuration["properties"]) {
		return fail(exterrors.ErrCodeMissingContent, "Missing configuration properties", nil)
	}

	return pass(mc.Path + " is valid")
}

// asObject returns v as a JSON object, or an empty one.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// asArray returns v as a JSON array, or nil.
func asArray(v any) []any {
	if a, ok := v.([]any); ok {
		return a
	}
	return nil
}

// truthy reports whether a decoded JSON value is non-empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
