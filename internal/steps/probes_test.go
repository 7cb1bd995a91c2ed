package steps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if ok, err := fileExists(path); err != nil || !ok {
		t.Fatalf("fileExists(present) = %v, %v", ok, err)
	}
	if ok, err := fileExists(filepath.Join(dir, "absent")); err != nil || ok {
		t.Fatalf("fileExists(absent) = %v, %v", ok, err)
	}
}

func TestBinaryOnPath(t *testing.T) {
	if ok, _ := binaryOnPath("ls"); !ok {
		t.Fatal("ls should resolve on the search path")
	}
	if ok, _ := binaryOnPath("definitely-not-a-real-binary-zz"); ok {
		t.Fatal("nonexistent binary reported as present")
	}
}

func TestFileContainsLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc")
	content := "export EDITOR=vim\n  # managed by devstation  \nalias ll=\"ls -al\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if ok, err := fileContainsLine(path, shellMarker); err != nil || !ok {
		t.Fatalf("marker not found: %v, %v", ok, err)
	}
	if ok, _ := fileContainsLine(path, "export PATH=/nowhere"); ok {
		t.Fatal("found a line that is not there")
	}
	if ok, err := fileContainsLine(filepath.Join(dir, "missing"), shellMarker); err != nil || ok {
		t.Fatalf("missing file should simply report no: %v, %v", ok, err)
	}
}

func TestGitIdentitySet(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"both set", "[user]\n\tname = Jane Doe\n\temail = jane@example.com\n", true},
		{"name only", "[user]\n\tname = Jane Doe\n", false},
		{"empty email", "[user]\n\tname = Jane\n\temail =\n", false},
		{"other section", "[core]\n\tname = sneaky\n\temail = sneaky@x.y\n", false},
		{"no file", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home := t.TempDir()
			if tc.content != "" {
				if err := os.WriteFile(filepath.Join(home, ".gitconfig"), []byte(tc.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			got, err := gitIdentitySet(home)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("gitIdentitySet = %v, want %v", got, tc.want)
			}
		})
	}
}
