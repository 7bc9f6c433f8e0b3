package chromebrowser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/playwright-community/playwright-go"
)

// ResolveChromePath resolves the Chrome executable path in the following order:
// 1. If explicitPath is non-empty, use it
// 2. If CHROME_PATH environment variable is set, use it
// 3. System installations (chromium → chrome order per platform)
// 4. A Chromium previously downloaded into the Playwright cache
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}

	if path := findSystemChrome(); path != "" {
		return path
	}

	return findPlaywrightChromium(playwrightCacheDir())
}

// InstallChromium downloads Chromium through the Playwright driver and
// returns the installed executable.
func InstallChromium() (string, error) {
	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
	}); err != nil {
		return "", err
	}

	path := findPlaywrightChromium(playwrightCacheDir())
	if path == "" {
		return "", fmt.Errorf("chromium installed but executable not found under %s", playwrightCacheDir())
	}
	return path, nil
}

// findSystemChrome searches for Chrome/Chromium in system default locations.
func findSystemChrome() string {
	var candidates []string

	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "linux":
		candidates = []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
		}
	case "windows":
		for _, root := range []string{os.Getenv("PROGRAMFILES"), os.Getenv("PROGRAMFILES(X86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
	}

	for _, candidate := range candidates {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// playwrightCacheDir returns where Playwright stores downloaded browsers.
func playwrightCacheDir() string {
	if dir := os.Getenv("PLAYWRIGHT_BROWSERS_PATH"); dir != "" && dir != "0" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Caches", "ms-playwright")
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "ms-playwright")
	default:
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "ms-playwright")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", "ms-playwright")
	}
}

// findPlaywrightChromium returns the newest chromium-<rev> executable under
// cacheDir, or "" when none is installed.
func findPlaywrightChromium(cacheDir string) string {
	var patterns []string
	switch runtime.GOOS {
	case "darwin":
		patterns = []string{
			filepath.Join(cacheDir, "chromium-*", "chrome-mac", "Chromium.app", "Contents", "MacOS", "Chromium"),
			filepath.Join(cacheDir, "chromium-*", "chrome-mac-arm64", "Chromium.app", "Contents", "MacOS", "Chromium"),
		}
	case "windows":
		patterns = []string{
			filepath.Join(cacheDir, "chromium-*", "chrome-win", "chrome.exe"),
			filepath.Join(cacheDir, "chromium-*", "chrome-win64", "chrome.exe"),
		}
	default:
		patterns = []string{
			filepath.Join(cacheDir, "chromium-*", "chrome-linux", "chrome"),
			filepath.Join(cacheDir, "chromium-*", "chrome-linux64", "chrome"),
		}
	}

	var matches []string
	for _, pattern := range patterns {
		found, _ := filepath.Glob(pattern)
		matches = append(matches, found...)
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

// resolveExecutable checks if the given path/name exists as an executable.
// Full paths are checked with os.Stat, bare names through exec.LookPath.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}

	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
