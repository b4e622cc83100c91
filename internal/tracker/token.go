package tracker

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveToken retrieves a GitHub token from the environment or the gh
// CLI config. The explicit value wins when non-empty.
func ResolveToken(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}

	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	return ghCLIToken()
}

// ghCLIToken attempts to read a token from the gh CLI configuration.
func ghCLIToken() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// gh stores hosts.yml in different locations by OS
	configPaths := []string{
		filepath.Join(homeDir, ".config", "gh", "hosts.yml"),
		filepath.Join(homeDir, "AppData", "Roaming", "GitHub CLI", "hosts.yml"),
	}

	for _, configPath := range configPaths {
		data, err := os.ReadFile(configPath)
		if err != nil {
			continue
		}

		// Simple parsing - look for oauth_token line under github.com
		lines := strings.Split(string(data), "\n")
		inGitHub := false

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "github.com:") {
				inGitHub = true
				continue
			}

			if inGitHub && strings.HasPrefix(trimmed, "oauth_token:") {
				token := strings.TrimPrefix(trimmed, "oauth_token:")

				return strings.TrimSpace(token)
			}

			// Reset if we hit another host
			if inGitHub && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") && strings.Contains(line, ":") {
				inGitHub = false
			}
		}
	}

	return ""
}
