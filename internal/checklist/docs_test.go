package checklist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	exterrors "github.com/devboost-pro/extcheck/internal/errors"
)

func TestDocs_LengthBoundary(t *testing.T) {
	tests := []struct {
		length int
		status Status
	}{
		{4999, StatusFail},
		{5000, StatusPass},
		{8000, StatusPass},
	}

	for _, tt := range tests {
		f := newFixture(t)
		f.write("README.md", readmeOfLength(tt.length))

		res := runCheck(t, f, IDDocs, okCompiler())

		assert.Equal(t, tt.status, res.Status, "length=%d", tt.length)
		if tt.status == StatusFail {
			assert.Equal(t, "README too short - needs more comprehensive documentation", res.Message)
			assert.Equal(t, exterrors.ErrCodeBelowThreshold, res.Code)
		} else {
			assert.Equal(t, "Documentation is comprehensive", res.Message)
		}
	}
}

func TestDocs_LengthCountsCodePoints(t *testing.T) {
	// Given: 5000 code points where some are multi-byte
	f := newFixture(t)
	readme := readmeOfLength(5000)
	readme = readme[:len(readme)-10] + strings.Repeat("é", 10)
	f.write("README.md", readme)

	res := runCheck(t, f, IDDocs, okCompiler())

	assert.Equal(t, StatusPass, res.Status)
}

func TestDocs_CRLFCountsAsOneCharacter(t *testing.T) {
	// Given: a README at exactly 5000 characters using \n, rewritten with \r\n
	f := newFixture(t)
	f.write("README.md", strings.ReplaceAll(readmeOfLength(5000), "\n", "\r\n"))

	res := runCheck(t, f, IDDocs, okCompiler())

	// Then: the length is unchanged
	assert.Equal(t, StatusPass, res.Status)

	// And: one character less still fails
	f.write("README.md", strings.ReplaceAll(readmeOfLength(4999), "\n", "\r\n"))
	res = runCheck(t, f, IDDocs, okCompiler())
	assert.Equal(t, StatusFail, res.Status)
}

func TestDocs_MissingSections(t *testing.T) {
	f := newFixture(t)
	readme := strings.Replace(readmeOfLength(6000), "## Security", "## Safety", 1)
	readme = strings.Replace(readme, "## Quick Start", "## Getting Started", 1)
	f.write("README.md", readme)

	res := runCheck(t, f, IDDocs, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Missing README sections: ## Quick Start, ## Security", res.Message)
	assert.Equal(t, []string{"## Quick Start", "## Security"}, res.Details)
}

func TestDocs_MissingReadme(t *testing.T) {
	f := newFixture(t)
	f.remove("README.md")

	res := runCheck(t, f, IDDocs, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.True(t, strings.HasPrefix(res.Message, "Error testing documentation: "), res.Message)
}

func TestDocs_InvalidUTF8(t *testing.T) {
	f := newFixture(t)
	f.write("README.md", readmeOfLength(5000)+"\xc3\x28")

	res := runCheck(t, f, IDDocs, okCompiler())

	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, exterrors.ErrCodeFileEncoding, res.Code)
	assert.Contains(t, res.Message, "invalid UTF-8")
}
