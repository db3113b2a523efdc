package config

import (
	lua "github.com/yuin/gopher-lua"
)

// VM limits for config evaluation
const (
	luaCallStackSize = 256
	luaRegistrySize  = 8 * 1024
)

// sandboxLibs are the only standard libraries opened in a config VM.
// os, io, package, debug and channel are never loaded.
var sandboxLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are base library functions removed from a config VM.
// They load code, touch files, print to the terminal, or bypass the
// read-only platform table.
var blockedGlobals = []string{
	"require", "module", "dofile", "loadfile", "load", "loadstring",
	"print", "collectgarbage", "getfenv", "setfenv",
	"rawset", "rawget", "rawequal", "setmetatable", "getmetatable", "newproxy",
}

// sandboxLuaVM removes the blocked globals from L.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua state with only the safe libraries opened.
// A config file can compute values with string, table and math, but it
// cannot reach the host.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: luaCallStackSize,
		RegistrySize:  luaRegistrySize,
	})

	for _, lib := range sandboxLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	sandboxLuaVM(L)
	return L
}
