package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "1.2.3", want: "1.2.3"},
		{name: "leading v stripped", raw: "v2.0.1", want: "2.0.1"},
		{name: "prerelease", raw: "0.1.0-dev", want: "0.1.0-dev"},
		{name: "not semver is passed through", raw: "nightly", want: "nightly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := version
			t.Cleanup(func() { version = orig })
			version = tt.raw
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := version, gitCommit, buildDate
	t.Cleanup(func() { version, gitCommit, buildDate = origVersion, origCommit, origDate })

	version, gitCommit, buildDate = "1.0.0", "", ""
	assert.Equal(t, "1.0.0", String())

	gitCommit = "abc1234"
	assert.Equal(t, "1.0.0 (abc1234)", String())

	buildDate = "2025-01-02"
	assert.Equal(t, "1.0.0 (abc1234, built 2025-01-02)", String())
	assert.Equal(t, "abc1234", GetGitCommit())
	assert.Equal(t, "2025-01-02", GetBuildDate())
}
