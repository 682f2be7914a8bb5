package loader

import (
	"os"
	"path/filepath"
)

// PackageDescriptor is the parsed form of a package.ox file (§4.8): the
// entry script, the libraries/executables it declares, plus the injected
// Path/Name fields the loader fills in itself. The package.ox *text
// format* is explicitly out of scope (§Non-goals: "package-format
// definition beyond the loader hook") — DescriptorParser is the pluggable
// hook a real front end installs to turn file bytes into this struct; this
// package only defines the struct shape and the resolution logic that
// consumes it.
type PackageDescriptor struct {
	Script      string   // entry script path, relative to the package dir
	Libraries   []string // case-insensitive library names this package depends on
	Executables []string // named entry points exposed as runnable scripts
	Path        string   // injected: the package directory itself
	Name        string   // injected: $name, defaults to the directory's base name
}

// DescriptorParser turns a package.ox file's bytes into a PackageDescriptor.
// Nil by default (package.ox support is then simply absent and bare-name
// imports fall back to the "index" convention); internal/ox or an embedder
// installs a real one.
var DescriptorParser func(data []byte) (*PackageDescriptor, error)

// readPackageDescriptor loads and parses pkgDir/package.ox if present and a
// DescriptorParser is installed.
func (l *Loader) readPackageDescriptor(pkgDir string) (*PackageDescriptor, error) {
	if DescriptorParser == nil {
		return nil, errNotFound("package.ox")
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.ox"))
	if err != nil {
		return nil, err
	}
	desc, err := DescriptorParser(data)
	if err != nil {
		return nil, err
	}
	desc.Path = pkgDir
	if desc.Name == "" {
		desc.Name = filepath.Base(pkgDir)
	}
	return desc, nil
}
