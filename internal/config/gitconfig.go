package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const gitConfigPrefix = "vcprobe."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "vcprobe.format [%b] \nvcprobe.ignore_modified ~/nfs\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		// values may contain spaces, including trailing ones in formats
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			// a key without value is git's shorthand for true
			key, value = line, "true"
		}

		key = strings.TrimPrefix(key, gitConfigPrefix)
		configMap[key] = append(configMap[key], value)
	}

	return configMap
}

// convertGitConfigToParseConfig converts to format expected by applyConfig().
func convertGitConfigToParseConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		if len(values) == 0 {
			continue
		}

		// Multi-value keys become arrays (e.g., ignore_modified)
		if len(values) > 1 {
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
			continue
		}

		result[key] = values[0]
	}

	return result
}

// loadGitConfig reads the global vcprobe.* git config values and returns a
// map for applyConfig.
func loadGitConfig() (map[string]any, error) {
	output, err := runGitConfig([]string{"config", "--global", "--get-regexp", `^vcprobe\.`}, "")
	if err != nil {
		return nil, err
	}

	return convertGitConfigToParseConfig(parseGitConfigOutput(output)), nil
}

// parseCLIConfigOverrides parses -C vcprobe.key=value format.
// Returns a map suitable for applyConfig().
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: vcprobe.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, gitConfigPrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", gitConfigPrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, gitConfigPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		// Repeated keys become arrays
		switch existing := result[key].(type) {
		case nil:
			result[key] = value
		case string:
			result[key] = []any{existing, value}
		case []any:
			result[key] = append(existing, value)
		}
	}

	return result, nil
}
