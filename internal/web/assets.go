package web

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets/index.html
var defaultIndexHTML string

// IndexPage returns the raw index template: the operator's override in dataDir
// if present, else the embedded default. The result still carries ${key}
// placeholders and must go through Render.
func IndexPage(dataDir string) string {
	data, err := os.ReadFile(filepath.Join(dataDir, "index.html"))
	if err != nil {
		return defaultIndexHTML
	}
	return string(data)
}

// EnsureIndexFile writes the embedded default page to dataDir so operators
// have a file to customize. An existing file is left untouched.
func EnsureIndexFile(dataDir string) error {
	path := filepath.Join(dataDir, "index.html")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultIndexHTML), 0o644); err != nil {
		return fmt.Errorf("write default index.html: %w", err)
	}
	return nil
}
