package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/nsyo/jsre/internal/config"
)

// Manifest is the handful of package.json fields the CLI's manifest mode
// needs: the entry module and the declared dependency names (read for
// their own sake — nothing here validates them against node_modules,
// only that resolution work once they're installed there).
type Manifest struct {
	Main         string
	Dependencies map[string]string
}

// loadManifest plucks Main/Dependencies out of the package.json at path
// with gjson rather than a struct-tagged json.Unmarshal — the same
// quick-field idiom internal/host uses for a directory import's own
// manifest.
func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	main := gjson.GetBytes(data, "main").String()
	if main == "" {
		return Manifest{}, fmt.Errorf("%s: no \"main\" field", path)
	}

	m := Manifest{Main: main, Dependencies: make(map[string]string)}
	gjson.GetBytes(data, "dependencies").ForEach(func(key, value gjson.Result) bool {
		m.Dependencies[key.String()] = value.String()
		return true
	})
	return m, nil
}

// manifestAt reports whether path's base name is the recognized manifest
// filename.
func manifestAt(path string) bool {
	return filepath.Base(path) == config.ManifestName
}
