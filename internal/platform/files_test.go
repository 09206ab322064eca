package platform

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
		wantErr  bool
	}{
		{"/tmp/a.jpg", "/tmp/a.jpg", false},
		{"file:///tmp/a.jpg", filepath.FromSlash("/tmp/a.jpg"), false},
		{"file:///tmp/with%20space.jpg", filepath.FromSlash("/tmp/with space.jpg"), false},
		{"https://example.com/a.jpg", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := LocalPath(test.uri)
		if (err != nil) != test.wantErr {
			t.Errorf("LocalPath(%q) error = %v, wantErr %v", test.uri, err, test.wantErr)
			continue
		}
		if result != test.expected {
			t.Errorf("LocalPath(%q) = %q, expected %q", test.uri, result, test.expected)
		}
	}
}

func TestFileURI(t *testing.T) {
	if got := FileURI("/home/user/a.png"); got != "file:///home/user/a.png" {
		t.Errorf("FileURI() = %q", got)
	}
}

func TestGetHomePicturesDir(t *testing.T) {
	dir, err := GetHomePicturesDir()
	if err != nil {
		t.Fatalf("Failed to get pictures directory: %v", err)
	}
	if dir == "" {
		t.Fatal("Pictures directory is empty")
	}
	if filepath.Base(dir) != "Pictures" {
		t.Errorf("Expected directory to end with 'Pictures', got: %s", dir)
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "missing.jpg")

	err := OpenFileInManager(missing)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestOpenFileInManager_RemoteURI(t *testing.T) {
	if err := OpenFileInManager("https://example.com/a.jpg"); err == nil {
		t.Fatal("Expected error for remote uri")
	}
}
