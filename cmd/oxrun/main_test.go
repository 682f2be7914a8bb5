package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers oxrun's run() as an in-process testscript command, so
// cmd scripts under testdata/script exercise the real CLI entry point
// without forking a new process per test case — the same technique the
// package's own go.mod dependency on rogpeppe/go-internal/testscript is
// wired in for (see DESIGN.md's Test tooling section).
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"oxrun": func() int { return run(os.Args[1:]) },
	}))
}

func TestOxrunScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
