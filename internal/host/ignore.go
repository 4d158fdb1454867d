package host

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ignoreFile is the optional `.jsreignore` project config: an override
// for the vendored-dependency directory name, and extra specifiers to
// treat as native stubs beyond config.NativeModules.
type ignoreFile struct {
	VendoredDir   string   `yaml:"vendored_dir"`
	NativeModules []string `yaml:"native_modules"`
}

// LoadIgnoreFile reads a `.jsreignore` YAML file at path, if present, and
// applies its overrides to h. A missing file is not an error — the file
// is entirely optional.
func (h *Host) LoadIgnoreFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var cfg ignoreFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	if cfg.VendoredDir != "" {
		h.VendoredDir = cfg.VendoredDir
	}
	h.ExtraNatives = append(h.ExtraNatives, cfg.NativeModules...)
	return nil
}
