package steps

import (
	"bufio"
	"os"
	"os/exec"
	"strings"
)

// Guard probes. Each one inspects live system state and must be free of
// side effects; none of them spawns a process, so consulting guards is
// safe in any execution mode. A probe that itself errors makes the
// orchestrator fail open toward running the step.

// binaryOnPath reports whether a binary resolves on the search path.
func binaryOnPath(name string) (bool, error) {
	_, err := exec.LookPath(name)
	return err == nil, nil
}

// fileExists reports whether a path exists. Errors other than "not exist"
// (e.g. permission problems on a parent directory) are returned so the
// guard fails open.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// fileContainsLine reports whether any line of the file, trimmed, equals
// the given line. A missing file simply means "no".
func fileContainsLine(path, line string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == line {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// gitIdentitySet reports whether the global version-control identity has
// both a non-empty name and email. It reads the global config file
// directly rather than shelling out, keeping the probe passive.
func gitIdentitySet(home string) (bool, error) {
	f, err := os.Open(home + "/.gitconfig")
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var inUser, hasName, hasEmail bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inUser = line == "[user]"
			continue
		}
		if !inUser {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "name":
			hasName = strings.TrimSpace(value) != ""
		case "email":
			hasEmail = strings.TrimSpace(value) != ""
		}
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	return hasName && hasEmail, nil
}
