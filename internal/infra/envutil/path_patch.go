// Package envutil adjusts the environment handed to CLI subprocesses.
package envutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	SkipPathPatchEnv = "VPC_LATTICE_MCP_SKIP_PATH_PATCH"

	termEnv  = "TERM"
	shellEnv = "SHELL"
	pathEnv  = "PATH"

	loginShellTimeout = 2 * time.Second
)

type pathCacheEntry struct {
	path string
	err  error
}

var loginPathCache sync.Map

// PatchPATH merges the login shell PATH into env on macOS when no terminal is
// attached. Elsewhere env is returned as is.
func PatchPATH(env []string) []string {
	if runtime.GOOS != "darwin" {
		return env
	}
	if strings.TrimSpace(Value(env, SkipPathPatchEnv)) != "" {
		return env
	}
	if strings.TrimSpace(Value(env, termEnv)) != "" {
		return env
	}
	shellPath := strings.TrimSpace(Value(env, shellEnv))
	if shellPath == "" {
		shellPath = "/bin/zsh"
	}
	loginPath, err := loginShellPATH(shellPath)
	if err != nil || strings.TrimSpace(loginPath) == "" {
		return env
	}
	current := Value(env, pathEnv)
	merged := mergePATH(loginPath, current)
	if merged == "" || merged == current {
		return env
	}
	return Set(env, pathEnv, merged)
}

// ResolveExecutable looks name up in the PATH carried by env. Names with a
// path separator, and names that cannot be found, are returned unchanged so
// that exec reports the failure.
func ResolveExecutable(name string, env []string) string {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		return name
	}
	for _, dir := range filepath.SplitList(Value(env, pathEnv)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
			continue
		}
		return candidate
	}
	return name
}

// Value returns the last value of key in env.
func Value(env []string, key string) string {
	if key == "" {
		return ""
	}
	prefix := key + "="
	var value string
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			value = strings.TrimPrefix(entry, prefix)
		}
	}
	return value
}

// Set replaces every entry for key with a single key=value entry.
func Set(env []string, key, value string) []string {
	if key == "" {
		return env
	}
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			continue
		}
		out = append(out, entry)
	}
	return append(out, prefix+value)
}

func loginShellPATH(shellPath string) (string, error) {
	if cached, ok := loginPathCache.Load(shellPath); ok {
		entry := cached.(pathCacheEntry)
		return entry.path, entry.err
	}
	path, err := resolveLoginShellPATH(shellPath)
	loginPathCache.Store(shellPath, pathCacheEntry{path: path, err: err})
	return path, err
}

func resolveLoginShellPATH(shellPath string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), loginShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, shellPath, "-lc", "echo $PATH")
	cmd.Env = append(os.Environ(), "LANG=C", "LC_ALL=C")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// mergePATH joins primary and fallback, keeping the first occurrence of each entry.
func mergePATH(primary, fallback string) string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range []string{primary, fallback} {
		for _, entry := range filepath.SplitList(list) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			out = append(out, entry)
		}
	}
	return strings.Join(out, string(os.PathListSeparator))
}
