package binary

import (
	"fmt"
	"strings"

	"github.com/vekt-dev/vekt-install/internal/platform"
)

// DefaultBaseURL is the release host used when none is configured.
const DefaultBaseURL = "https://github.com"

// AssetFileName returns the release file name for repo on p.
// Pattern: {repo}-{os}-{arch}, with ".exe" appended on Windows.
func AssetFileName(repo string, p platform.Platform) string {
	name := fmt.Sprintf("%s-%s-%s", repo, p.OS, p.Arch)
	if p.IsWindows() {
		name += ".exe"
	}
	return name
}

// Locate builds the download location of the latest release asset for p.
// Pattern: {baseURL}/{owner}/{repo}/releases/latest/download/{file}
//
// Locate performs no I/O; the same inputs always produce the same Asset.
func Locate(owner, repo, baseURL string, p platform.Platform) Asset {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	file := AssetFileName(repo, p)

	return Asset{
		Owner:    owner,
		Repo:     repo,
		FileName: file,
		URL:      fmt.Sprintf("%s/%s/%s/releases/latest/download/%s", baseURL, owner, repo, file),
	}
}
