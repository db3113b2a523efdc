package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable exposes the host to Lua as the read-only global
// "platform". p is nil when the host did not resolve; the table then has
// supported = false, every is_* flag false, and os/arch hold the lowercased
// raw strings.
//
//	install = { install_dir = platform.when(platform.is_windows, "C:/tools") }
func InjectPlatformTable(L *lua.LState, h *Host, p *Platform) error {
	if h == nil {
		h = &Host{}
	}

	t := L.NewTable()
	for name, value := range platformFields(h, p) {
		t.RawSetString(name, value)
	}
	t.RawSetString("distro", distroTable(L, h))
	t.RawSetString("when", L.NewFunction(luaWhen))

	L.SetGlobal("platform", readOnly(L, "platform", t))
	return nil
}

func platformFields(h *Host, p *Platform) map[string]lua.LValue {
	var resolved Platform
	osName, archName := normalizePlatform(h.RawOS), normalizePlatform(h.RawArch)
	if p != nil {
		resolved = *p
		osName, archName = string(p.OS), string(p.Arch)
	}

	return map[string]lua.LValue{
		"os":               lua.LString(osName),
		"arch":             lua.LString(archName),
		"os_raw":           lua.LString(h.RawOS),
		"arch_raw":         lua.LString(h.RawArch),
		"supported":        lua.LBool(p != nil),
		"is_linux":         lua.LBool(resolved.IsLinux()),
		"is_macos":         lua.LBool(resolved.IsMacOS()),
		"is_windows":       lua.LBool(resolved.IsWindows()),
		"is_amd64":         lua.LBool(resolved.Arch == ArchAMD64),
		"is_arm64":         lua.LBool(resolved.Arch == ArchARM64),
		"is_apple_silicon": lua.LBool(resolved.IsAppleSilicon()),
	}
}

// distroTable returns {id, family, version}, or nil without a detected distro.
func distroTable(L *lua.LState, h *Host) lua.LValue {
	if h.Distro == "" {
		return lua.LNil
	}
	d := L.NewTable()
	d.RawSetString("id", lua.LString(h.Distro))
	d.RawSetString("family", lua.LString(h.Family))
	d.RawSetString("version", lua.LString(h.Version))
	return d
}

// luaWhen implements when(cond, value): value if cond is true, else nil.
func luaWhen(L *lua.LState) int {
	if L.CheckBool(1) {
		L.Push(L.Get(2))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// readOnly wraps t in an empty proxy whose metatable forwards reads and
// rejects writes. The metatable itself is locked with __metatable.
func readOnly(L *lua.LState, name string, t *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	mt.RawSetString("__index", t)
	mt.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("%s table is read-only and cannot be modified", name)
		return 0
	}))
	mt.RawSetString("__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
