package checklist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

func TestSecurity_Implemented(t *testing.T) {
	f := newFixture(t)

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, StatusPass, res.Status)
	assert.Equal(t, "Security features implemented", res.Message)
}

func TestSecurity_MissingFeatureIsNamed(t *testing.T) {
	// Given: the security file without validateConfig
	f := newFixture(t)
	f.write("src/utils/security.ts", strings.ReplaceAll(securitySource, "validateConfig", "checkSettings"))

	// When: running the security check
	res := runCheck(t, f, IDSecurity, okCompiler())

	// Then: only that feature is reported
	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Missing security features: validateConfig", res.Message)
	assert.Equal(t, []string{"validateConfig"}, res.Details)
	assert.Equal(t, exterrors.ErrCodeMissingContent, res.Code)
}

func TestSecurity_FeatureMatchIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.write("src/utils/security.ts", strings.ReplaceAll(securitySource, "createRateLimiter", "CreateRateLimiter"))

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, "Missing security features: createRateLimiter", res.Message)
}

func TestSecurity_MissingAlgorithm(t *testing.T) {
	f := newFixture(t)
	f.write("src/utils/security.ts", strings.ReplaceAll(securitySource, "AES-256-GCM", "aes-256-cbc"))

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Missing strong encryption algorithm", res.Message)
}

func TestSecurity_MissingSanitization(t *testing.T) {
	// Given: a project whose feature list no longer contains a sanitize name
	f := newFixture(t)
	sc := &f.project.Config.Security
	sc.Features = []string{"encrypt", "decrypt"}
	f.write(sc.File, "const ALGORITHM = 'AES-256-GCM';\nencrypt(); decrypt();\n")

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Missing input sanitization", res.Message)
}

func TestSecurity_UpperCaseMarkerSatisfiesSanitization(t *testing.T) {
	f := newFixture(t)
	sc := &f.project.Config.Security
	sc.Features = []string{"encrypt"}
	f.write(sc.File, "AES-256-GCM encrypt\n// SANITIZE ALL INPUT\n")

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, StatusPass, res.Status)
}

func TestSecurity_MissingFile(t *testing.T) {
	f := newFixture(t)
	f.remove("src/utils/security.ts")

	res := runCheck(t, f, IDSecurity, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.True(t, strings.HasPrefix(res.Message, "Error testing security: "), res.Message)
	assert.Equal(t, exterrors.ErrCodeFileNotFound, res.Code)
}
