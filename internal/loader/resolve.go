package loader

import (
	"os"
	"path/filepath"
	"strings"
)

// specForm classifies an import spec per §4.8's resolution table.
type specForm uint8

const (
	formRelative specForm = iota // "./x", "../x"
	formAbsolute                 // "/x"
	formPackageFile               // "pkg/file"
	formBareName                  // "pkg"
)

func classify(spec string) specForm {
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return formRelative
	case filepath.IsAbs(spec):
		return formAbsolute
	case strings.Contains(spec, "/"):
		return formPackageFile
	default:
		return formBareName
	}
}

// extOrder is the `.ox`/`.oxn` extension try-order of §4.8: a script spec
// that already carries either extension is tried as-is first; otherwise
// the literal path is tried as a regular file (directories are skipped),
// then each extension in turn.
var extOrder = []string{"", ".ox", ".oxn"}

// tryExtensions returns the first of base, base+".ox", base+".oxn" that
// exists on disk, or ("", false).
func tryExtensions(base string) (string, bool) {
	for _, ext := range extOrder {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// resolvePath implements the resolution table: it returns a concrete,
// existing file path for spec. A relative spec is resolved against fromDir
// (the requesting script's own directory) only, an absolute spec as is, and
// a package-file or bare-name spec against the Loader's configured search
// directories only. A bare "name.oxn" spec that matches no package
// directory is returned unchanged for LoadNative to look up by name.
func (l *Loader) resolvePath(spec, fromDir string) (string, error) {
	switch classify(spec) {
	case formRelative:
		base := filepath.Join(fromDir, spec)
		if p, ok := tryExtensions(base); ok {
			return p, nil
		}
		return "", errNotFound(spec)

	case formAbsolute:
		if p, ok := tryExtensions(spec); ok {
			return p, nil
		}
		return "", errNotFound(spec)

	case formPackageFile:
		parts := strings.SplitN(spec, "/", 2)
		pkgDir, err := l.findPackageDir(parts[0])
		if err != nil {
			return "", err
		}
		base := filepath.Join(pkgDir, parts[1])
		if p, ok := tryExtensions(base); ok {
			return p, nil
		}
		return "", errNotFound(spec)

	default: // formBareName
		pkgDir, err := l.findPackageDir(spec)
		if err != nil {
			if filepath.Ext(spec) == ".oxn" && l.LoadNative != nil {
				return spec, nil
			}
			return "", err
		}
		entry := l.packageEntryFile(pkgDir)
		if p, ok := tryExtensions(filepath.Join(pkgDir, entry)); ok {
			return p, nil
		}
		return "", errNotFound(spec)
	}
}

// findPackageDir searches l's configured directories (current script's own
// dir is handled by the caller via formRelative instead) for a directory
// named name, case-insensitively and tolerant of an optional .ox/.oxn
// suffix on the directory name itself, per §4.8's "library matching".
func (l *Loader) findPackageDir(name string) (string, error) {
	for _, dir := range l.searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if matchesLibraryName(e.Name(), name) {
				return filepath.Join(dir, e.Name()), nil
			}
		}
	}
	return "", errNotFound(name)
}

func matchesLibraryName(dirName, want string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(dirName, ".oxn"), ".ox")
	return strings.EqualFold(trimmed, want) || strings.EqualFold(dirName, want)
}

// packageEntryFile returns the file name a bare package import should load
// by default — the package.ox descriptor's declared "script" entry if one
// parses, otherwise the "index" convention.
func (l *Loader) packageEntryFile(pkgDir string) string {
	if desc, err := l.readPackageDescriptor(pkgDir); err == nil && desc.Script != "" {
		return desc.Script
	}
	return "index"
}
