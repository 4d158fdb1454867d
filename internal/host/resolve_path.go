package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/nsyo/jsre/internal/config"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isRelativeSpecifier reports whether specifier must be resolved against
// the importer's own directory rather than searched for in node_modules.
func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || specifier == "." || specifier == ".."
}

// resolveSpecifier turns an import specifier into a concrete file path,
// per spec's module-resolution contract: relative and absolute specifiers
// resolve against a directory directly; bare specifiers search upward
// through node_modules directories from the importer.
func (h *Host) resolveSpecifier(fromPath, specifier string) (string, error) {
	fromDir := filepath.Dir(fromPath)

	if filepath.IsAbs(specifier) {
		return h.resolveFileOrDir(specifier)
	}
	if isRelativeSpecifier(specifier) {
		return h.resolveFileOrDir(filepath.Join(fromDir, specifier))
	}
	return h.resolveBareSpecifier(fromDir, specifier)
}

// resolveFileOrDir tries path as a file (exact, then with a source
// extension appended), then as a directory (its manifest's "main" field,
// else an index file).
func (h *Host) resolveFileOrDir(path string) (string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, nil
	}
	withExt := path + config.SourceFileExtensions[0]
	if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
		return withExt, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return h.resolveDir(path)
	}
	return "", fmt.Errorf("no such module file or directory: %s", path)
}

// resolveDir resolves a directory specifier target through its manifest's
// "main" field, falling back to config.IndexFileName.
func (h *Host) resolveDir(dir string) (string, error) {
	manifest := filepath.Join(dir, config.ManifestName)
	if data, err := os.ReadFile(manifest); err == nil {
		if main := gjson.GetBytes(data, "main").String(); main != "" {
			return h.resolveFileOrDir(filepath.Join(dir, main))
		}
	}

	index := filepath.Join(dir, config.IndexFileName)
	if info, err := os.Stat(index); err == nil && !info.IsDir() {
		return index, nil
	}
	return "", fmt.Errorf("directory %s has no %s \"main\" and no %s", dir, config.ManifestName, config.IndexFileName)
}

// resolveBareSpecifier searches h.VendoredDir (default "node_modules") for
// specifier, walking upward from fromDir to the filesystem root the way
// the ambient ecosystem's own resolver does.
func (h *Host) resolveBareSpecifier(fromDir, specifier string) (string, error) {
	dir := fromDir
	for {
		candidate := filepath.Join(dir, h.VendoredDir, specifier)
		if resolved, err := h.resolveFileOrDir(candidate); err == nil {
			return resolved, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("cannot find module %q in any %s above %s", specifier, h.VendoredDir, fromDir)
}
