package ox

import (
	"fmt"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/loader"
)

// NativeEntry is a registered module's exec entry point — the in-process
// counterpart of a `.oxn` library's `ox_exec` symbol (§6), invoked once
// after Load populates sc with the module's bindings.
type NativeEntry func(c *Context, sc *loader.Script) error

// NativeModule is one registered in-process module (§6: "mirrors .oxn's
// ox_load/ox_exec contract").
type NativeModule struct {
	Name string
	Load func(c *Context, sc *loader.Script) error
	Exec NativeEntry
}

// RegisterNativeModule installs a module under name, reachable by a bare
// `"name.oxn"`-style import spec. internal/nativemods/{db,net,mathmod,
// strmod} each call this during VM setup.
func (vm *VM) RegisterNativeModule(name string, load func(c *Context, sc *loader.Script) error, exec NativeEntry) {
	vm.nativeModules[name] = &NativeModule{Name: name, Load: load, Exec: exec}
}

// nativeLoad is installed as the Loader's NativeLoadFunc (§4.7): it looks
// up the registered module by the path's base name (stripped of the
// .oxn extension) and runs its Load/Exec pair against a fresh Context
// sharing this VM.
func (vm *VM) nativeLoad(l *loader.Loader, sc *loader.Script, path string) error {
	name := moduleNameFromPath(path)
	mod, ok := vm.nativeModules[name]
	if !ok {
		return errtypes.NewReferenceError(fmt.Sprintf("no native module registered: %s", name), nil)
	}
	c := vm.NewContext()
	sc.SetDomain(name)
	if mod.Load != nil {
		if err := mod.Load(c, sc); err != nil {
			return err
		}
	}
	if mod.Exec != nil {
		return mod.Exec(c, sc)
	}
	return nil
}

func moduleNameFromPath(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	const suffix = ".oxn"
	if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
		base = base[:len(base)-len(suffix)]
	}
	return base
}
