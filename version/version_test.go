package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func setVars(t *testing.T, v, commit, built string) {
	t.Helper()
	origVersion, origCommit, origBuilt := Version, GitCommit, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuilt
	})
	Version, GitCommit, BuildTime = v, commit, built
}

func TestFromBuildInfoWithoutBuildInfo(t *testing.T) {
	setVars(t, "1.2.0", "", "2024-03-01T10:00:00Z")

	info := fromBuildInfo(nil, false)
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("BuildDate = %v, want %v", info.BuildDate, want)
	}
	if got := info.Short(); got != "1.2.0" {
		t.Errorf("Short() = %q", got)
	}
}

func TestFromBuildInfoVCSSettings(t *testing.T) {
	setVars(t, "dev", "", "")

	bi := &debug.BuildInfo{
		GoVersion: "go1.23.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2024-05-06T07:08:09Z"},
		},
	}
	info := fromBuildInfo(bi, true)

	if info.GitCommit != "0123456" {
		t.Errorf("GitCommit = %q, want 0123456", info.GitCommit)
	}
	if got := info.Short(); got != "dev-0123456-dirty" {
		t.Errorf("Short() = %q", got)
	}
	if got := info.String(); got != "dev-0123456-dirty go1.23.0 (built 2024-05-06T07:08:09Z)" {
		t.Errorf("String() = %q", got)
	}
}

func TestLinkerCommitWins(t *testing.T) {
	setVars(t, "1.0.0", "abc1234", "")

	bi := &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}}}
	if got := fromBuildInfo(bi, true).GitCommit; got != "abc1234" {
		t.Errorf("GitCommit = %q, want abc1234", got)
	}
}

func TestGet(t *testing.T) {
	if Get().Version == "" {
		t.Error("Get() returned empty version")
	}
}
