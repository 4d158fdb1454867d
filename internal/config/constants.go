// Package config centralizes the ambient constants every other package
// reads instead of hard-coding: recognized source extensions, the project
// manifest filename, the vendored-dependency directory name, and the
// enumerated native-module stub list.
package config

import "strings"

// Version is a package variable, so a build can override it with
// -ldflags "-X github.com/nsyo/jsre/internal/config.Version=...".
var Version = "0.1.0"

// SourceFileExtensions are the extensions recognized as analyzable module
// source.
var SourceFileExtensions = []string{".js", ".mjs", ".jsx"}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ManifestName is the project manifest file the CLI recognizes as an
// entry point.
const ManifestName = "package.json"

// VendoredDirName is excluded when analyzing a directory, and is the
// directory bare specifiers are searched in while walking upward from the
// importer.
const VendoredDirName = "node_modules"

// IndexFileName is tried when a resolved path is a directory with no
// manifest `main` field.
const IndexFileName = "index.js"

// NativeModules is the fixed enumerated list of built-in modules the
// analyzer stubs rather than analyzes.
var NativeModules = []string{
	"fs",
	"buffer",
	"crypto",
	"process",
	"tty",
	"util",
	"console",
}

// IsNativeModule reports whether name is one of NativeModules.
func IsNativeModule(name string) bool {
	for _, n := range NativeModules {
		if n == name {
			return true
		}
	}
	return false
}

// IsTestMode is a process-wide flag for test-oriented runs. Nothing in this
// module sets or reads it; it stays false unless a caller assigns it.
var IsTestMode = false

// ParserCacheVersionTag is stored as the "version" field of the host's
// diagnostics cache blob; a blob whose version differs is discarded rather
// than trusted.
var ParserCacheVersionTag = "jsre-cache-v1:" + Version
