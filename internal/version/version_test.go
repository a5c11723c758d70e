package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	defer func() {
		Version = origVersion
		Commit = origCommit
	}()

	tests := []struct {
		name        string
		version     string
		commit      string
		wantContain string
		wantExact   string
	}{
		{name: "unknown commit", version: "1.0.0", commit: "unknown", wantExact: "1.0.0"},
		{name: "short commit", version: "1.0.0", commit: "abc", wantExact: "1.0.0"},
		{name: "full commit hash", version: "1.0.0", commit: "abc1234567890", wantContain: "abc1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			Commit = tt.commit

			got := Info()
			if tt.wantExact != "" {
				assert.Equal(t, tt.wantExact, got)
			}
			if tt.wantContain != "" {
				assert.Contains(t, got, tt.wantContain)
			}
		})
	}
}

func TestFull(t *testing.T) {
	got := Full()
	for _, part := range []string{"ycg version", "Commit:", "Built:"} {
		assert.True(t, strings.Contains(got, part), "Full() = %q, want to contain %q", got, part)
	}
}

func TestGraphName(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	tests := []struct {
		version string
		want    string
	}{
		{"1.3.0", "ycg-v1.3"},
		{"2.0.11", "ycg-v2.0"},
		{"dev", "ycg-vdev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.want, GraphName())
		})
	}
}
