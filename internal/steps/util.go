package steps

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"devstation/internal/logger"
)

// downloadFile downloads the content located at the specified URL and
// saves it to the destination path. It returns an error if the download or
// file write fails.
func downloadFile(rec *logger.Recorder, url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			rec.Warnf("failed to close response body: %v", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			rec.Warnf("failed to close destination file: %v", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}
	rec.Debugf("downloaded %s to %s", url, destPath)
	return nil
}

// detectShell figures out which shell the current user runs by reading the
// SHELL environment variable. Supports zsh and bash, defaulting to zsh.
func detectShell() string {
	shell := os.Getenv("SHELL")
	if strings.Contains(shell, "bash") {
		return "bash"
	}
	return "zsh"
}

// rcFileFor maps a shell name to its startup file name.
func rcFileFor(shell string) string {
	if shell == "bash" {
		return ".bashrc"
	}
	return ".zshrc"
}

// appendMissingLines appends each line that is not already present in the
// file, creating the file if needed. Existing lines are matched after
// trimming, mirroring how shells treat them.
func appendMissingLines(path string, lines []string) error {
	existing := make(map[string]bool)
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		_ = f.Close()
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for appending: %w", path, err)
	}
	defer f.Close()

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || existing[trimmed] {
			continue
		}
		if _, err := f.WriteString(trimmed + "\n"); err != nil {
			return fmt.Errorf("failed to write line %q: %w", trimmed, err)
		}
		existing[trimmed] = true
	}
	return nil
}

// stripLines rewrites the file without any line whose trimmed form matches
// one of the given lines. A missing file is left missing.
func stripLines(path string, lines []string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	drop := make(map[string]bool, len(lines))
	for _, l := range lines {
		drop[strings.TrimSpace(l)] = true
	}

	var kept []string
	for _, line := range strings.Split(string(raw), "\n") {
		if drop[strings.TrimSpace(line)] {
			continue
		}
		kept = append(kept, line)
	}

	// Rewrite with the file's own permissions, not a fixed mode.
	mode := os.FileMode(0644)
	if st, serr := os.Stat(path); serr == nil {
		mode = st.Mode().Perm()
	}
	return os.WriteFile(path, []byte(strings.Join(kept, "\n")), mode)
}
