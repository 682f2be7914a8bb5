// Command oxrun is a thin embedder showing the sequence §2 describes:
// build a VM, acquire a Context, load a module, call into it, release the
// Context. It is deliberately NOT a language CLI — grounded on the
// teacher's cmd/sentra/main.go in *shape* only (flag parsing, a dispatch
// table, a friendly usage banner); it never lexes, parses, or executes
// bytecode of its own (§1 Non-goals: "no language frontend"). Without a
// Frontend installed, oxrun can only reach the native modules registered
// in-process below; a real embedder would call VM.SetFrontend with its own
// compiler before loading `.ox` source.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gongke-cn/ox/internal/nativemods/db"
	"github.com/gongke-cn/ox/internal/nativemods/mathmod"
	"github.com/gongke-cn/ox/internal/nativemods/net"
	"github.com/gongke-cn/ox/internal/nativemods/strmod"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/oxconfig"
	"github.com/gongke-cn/ox/internal/value"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the whole CLI and reports the process exit code, kept
// separate from main so a testscript harness (cmd/oxrun/main_test.go) can
// register it as an in-process script command instead of exec'ing a
// subprocess per test case.
func run(args []string) int {
	fs := flag.NewFlagSet("oxrun", flag.ContinueOnError)
	var installDir string
	fs.StringVar(&installDir, "install-dir", "", "override the install directory oxconfig resolves package search paths from")
	module := fs.String("module", "mathmod", "native module to load (db, net, mathmod, strmod)")
	fn := fs.String("call", "pi", "exported name to read or call from the loaded module")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := oxconfig.Load(installDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oxrun: config: %v\n", err)
		return 1
	}

	vm := ox.New(cfg)
	defer vm.Close()

	db.Register(vm)
	net.Register(vm)
	mathmod.Register(vm)
	strmod.Register(vm)

	c := vm.NewContext()
	c.DumpOnThrow = true
	c.DumpWriter = os.Stderr
	c.Lock()
	defer c.Unlock()

	sc, err := c.Load(*module + ".oxn")
	if err != nil {
		c.DumpPending()
		return 1
	}

	exported, ok := c.Lookup(value.FromObject(sc), c.Key(*fn))
	if !ok {
		fmt.Fprintf(os.Stderr, "oxrun: %s exports no %q\n", *module, *fn)
		return 1
	}

	if exported.Kind() == value.Heap && exported.HeapKind() == value.KNativeFunction {
		result, callErr := c.CallValue(exported, value.Nil, nil)
		if callErr != nil {
			c.DumpPending()
			return 1
		}
		printValue(c, result)
		return 0
	}
	printValue(c, exported)
	return 0
}

func printValue(c *ox.Context, v value.Value) {
	switch {
	case v.Kind() == value.Null:
		fmt.Println("null")
	case v.Kind() == value.Bool:
		fmt.Println(v.Bool())
	case v.Kind() == value.Number:
		fmt.Println(v.NumberVal())
	default:
		if s, ok := ox.AsString(v); ok {
			fmt.Println(s)
			return
		}
		fmt.Printf("<%s>\n", v.HeapKind())
	}
}
