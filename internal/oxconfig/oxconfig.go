// Package oxconfig parses the embedder-facing environment and install-
// layout configuration of §6: OX_PACKAGE_DIRS, OX_LOG_LEVEL, and the
// install directory a VM derives its default package search path and
// text-domain base directory from. Grounded on the teacher's
// internal/buildutil flag/env precedence convention (explicit env var
// wins over a computed default, never the other way around) and on
// original_source/src/lib/ox_context.c's install-dir discovery.
package oxconfig

import (
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/gongke-cn/ox/internal/oxlog"
)

// Config is the resolved embedder configuration for one VM instance.
type Config struct {
	InstallDir     string   // §6: base for the default package dirs and text-domain dir
	PackageDirs    []string // §6 OX_PACKAGE_DIRS, comma-separated; replaces the default list when set
	LogLevel       oxlog.Level
	TextDomainDir  string // defaults to <install>/share/locale (§6)
	DumpOnThrow    bool
}

// defaultPackageDirs returns the built-in search path relative to
// installDir, used when OX_PACKAGE_DIRS is unset (§6: "replaces defaults
// when set" implies there otherwise is one).
func defaultPackageDirs(installDir string) []string {
	return []string{
		filepath.Join(installDir, "lib", "ox"),
		filepath.Join(installDir, "share", "ox", "packages"),
	}
}

// Load resolves a Config from the process environment. installDir is the
// caller-supplied install directory (an embedder typically derives this
// from its own executable path); Load does not probe the filesystem for
// it.
func Load(installDir string) (*Config, error) {
	if installDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "oxconfig: resolve install directory")
		}
		installDir = filepath.Dir(exe)
	}

	cfg := &Config{
		InstallDir:    installDir,
		PackageDirs:   defaultPackageDirs(installDir),
		LogLevel:      oxlog.LevelWarn,
		TextDomainDir: filepath.Join(installDir, "share", "locale"),
	}

	if dirs := os.Getenv("OX_PACKAGE_DIRS"); dirs != "" {
		cfg.PackageDirs = splitDirs(dirs)
	}
	if lvl := os.Getenv("OX_LOG_LEVEL"); lvl != "" {
		parsed, err := oxlog.ParseLevel(lvl)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "oxconfig: OX_LOG_LEVEL")
		}
		cfg.LogLevel = parsed
	}
	return cfg, nil
}

func splitDirs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
