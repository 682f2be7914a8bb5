// Package ox is the embedder API and VM/Context lifecycle of §4.9,
// grounded on original_source/src/lib/ox_context.c and the teacher's
// internal/vm package (the equivalent "wire everything together" layer in
// sentra-language-sentra). One VM owns the heap (gc.Collector), the
// singleton-string table, the loader, the package namespace object and the
// big lock serialising every Context's access to them (§5).
package ox

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gongke-cn/ox/internal/arena"
	"github.com/gongke-cn/ox/internal/class"
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/gc"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/oxconfig"
	"github.com/gongke-cn/ox/internal/oxlog"
	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// VM is one instance of the runtime: one heap, one big lock, one loader,
// one package namespace. Every Context created from it shares all of that
// state; only one Context may hold the lock at a time (§5).
type VM struct {
	mu       sync.Mutex
	holderMu sync.Mutex
	holder   *Context
	depth    int

	Mem      *arena.Arena
	GC       *gc.Collector
	Loader   *loader.Loader
	Interner *strs.Interner
	Log      *oxlog.Logger
	Config   *oxconfig.Config

	packages   *object.Object
	globalRefs *arena.IdentitySet[string, value.Value]

	primitives *primitiveClasses
	errClasses map[errtypes.Kind]*class.Class

	nativeModules map[string]*NativeModule

	eg     *errgroup.Group
	egCtx  context.Context
	cancel context.CancelFunc
}

// primitiveClasses holds the Bool/Number/String/Function coercion classes
// built during bootstrap; Bool and Number are also installed into
// object.PrimitiveInterfaces (§4.6).
type primitiveClasses struct {
	boolClass, numberClass, stringClass, functionClass *class.Class
}

// New builds a VM from a resolved configuration, wiring every C1-C10
// component together (§4.9's bootstrap sequence) and installing the
// package-level hooks internal/errtypes and internal/object expose for
// this purpose.
func New(cfg *oxconfig.Config) *VM {
	if cfg == nil {
		cfg = &oxconfig.Config{LogLevel: oxlog.LevelWarn}
	}
	vm := &VM{
		Mem:           arena.New(),
		Loader:        loader.New(cfg.PackageDirs),
		Interner:      strs.NewInterner(),
		Log:           oxlog.New(os.Stderr, cfg.LogLevel),
		Config:        cfg,
		packages:      object.NewObject(),
		globalRefs:    arena.NewIdentitySet[string, value.Value](),
		errClasses:    make(map[errtypes.Kind]*class.Class),
		nativeModules: make(map[string]*NativeModule),
	}
	vm.GC = gc.New(vm.freeObject)
	vm.Loader.LoadNative = vm.nativeLoad
	vm.bootstrap()
	vm.egCtx, vm.cancel = context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(vm.egCtx)
	vm.eg = eg
	vm.egCtx = egCtx
	return vm
}

// ID returns the VM's instance identifier (§4.1, embedded in crash dumps).
func (vm *VM) ID() string { return vm.GC.ID() }

// Packages returns the VM-wide package namespace object (§4.3 GC root,
// §6 external interface): native modules and loaded libraries are
// installed here under their declared name.
func (vm *VM) Packages() *object.Object { return vm.packages }

// freeObject is the GC's per-kind teardown hook (§4.3): only strs.String
// backed by an mmap region needs an explicit release.
func (vm *VM) freeObject(o value.Object) {
	if s, ok := o.(*strs.String); ok {
		s.Release()
	}
}

// Collect runs one mark-sweep cycle. Only valid while some Context holds
// the lock (§4.3: "runs only while the VM's big lock is held").
func (vm *VM) Collect() int {
	vm.holderMu.Lock()
	held := vm.holder != nil
	vm.holderMu.Unlock()
	if !held {
		panic("ox: Collect called without an active Context lock")
	}
	return vm.GC.Collect()
}

// Spawn runs fn in a new goroutine supervised by the VM's errgroup (§5:
// "multiple OS threads share one VM... serialising through this mutex") —
// fn is expected to create its own Context and Lock/Unlock around its own
// work; Spawn only supervises the goroutine's lifetime and error
// propagation, mirroring errgroup.Group's normal contract.
func (vm *VM) Spawn(fn func() error) {
	vm.eg.Go(fn)
}

// Wait blocks until every goroutine started via Spawn has returned,
// returning the first non-nil error any of them returned.
func (vm *VM) Wait() error {
	return vm.eg.Wait()
}

// Close cancels any in-flight supervised workers, waits for them, and logs
// the arena's teardown summary (mirrors ox_mem_deinit, §4.1), logging at
// error level if memory was leaked. It returns the first error a Spawned
// worker returned.
func (vm *VM) Close() error {
	vm.cancel()
	err := vm.eg.Wait()
	vm.Log.Info(vm.Mem.Summary())
	if leaked, ok := vm.Mem.Leaked(); ok {
		vm.Log.Error("ox: %d bytes still accounted at teardown", leaked)
	}
	return err
}

func (vm *VM) errClass(kind errtypes.Kind) (*class.Class, bool) {
	c, ok := vm.errClasses[kind]
	return c, ok
}
