package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/vekt-dev/vekt-install/internal/platform"
)

// ParseError represents a config file error with a friendly message.
type ParseError struct {
	Path    string // config file, empty for in-memory sources
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	prefix := e.Message
	if e.Path != "" {
		prefix = e.Path + ": " + e.Message
	}
	if e.Detail == "" {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, e.Detail)
}

// luaKeys are the keys accepted in the install table.
var luaKeys = map[string]lua.LValueType{
	keyOwner:      lua.LTString,
	keyRepo:       lua.LTString,
	keyBaseURL:    lua.LTString,
	keyInstallDir: lua.LTString,
	keyTransports: lua.LTTable,
	keyDebug:      lua.LTBool,
}

// ParseLua runs a Lua config in a sandboxed VM and returns the values it
// assigned to the global "install" table. host and p feed the read-only
// platform table; p may be nil when the host platform did not resolve.
func ParseLua(ctx context.Context, code string, host *platform.Host, p *platform.Platform) (map[string]any, error) {
	if len(code) > maxConfigSize {
		return nil, &ParseError{Message: "config file too large", Detail: fmt.Sprintf("%d bytes exceeds limit of %d", len(code), maxConfigSize)}
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if err := platform.InjectPlatformTable(L, host, p); err != nil {
		return nil, errors.Wrap(err, "inject platform table")
	}

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{Message: "Lua error", Detail: trimTraceback(err.Error())}
	}

	return extractInstall(L)
}

// ParseLuaFile reads and parses a Lua config file.
func ParseLuaFile(ctx context.Context, path string, host *platform.Host, p *platform.Platform) (map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigSize {
		return nil, &ParseError{Path: path, Message: "config file too large", Detail: fmt.Sprintf("%d bytes exceeds limit of %d", info.Size(), maxConfigSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	values, err := ParseLua(ctx, string(data), host, p)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) && parseErr.Path == "" {
			parseErr.Path = path
		}
		return nil, err
	}

	return values, nil
}

// extractInstall converts the global install table into a flat map.
// A missing install table is an empty configuration.
func extractInstall(L *lua.LState) (map[string]any, error) {
	global := L.GetGlobal(luaGlobalInstall)
	if global == lua.LNil {
		return map[string]any{}, nil
	}

	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'install' value",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	values := map[string]any{}
	var unknown []string
	var firstErr error

	table.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}

		key, ok := k.(lua.LString)
		if !ok {
			firstErr = &ParseError{Message: "invalid key in 'install'", Detail: fmt.Sprintf("expected string key, got %s", k.Type())}
			return
		}

		name := string(key)
		want, known := luaKeys[name]
		if !known {
			unknown = append(unknown, name)
			return
		}

		if v.Type() != want {
			firstErr = &ParseError{Message: fmt.Sprintf("invalid value for install.%s", name), Detail: fmt.Sprintf("expected %s, got %s", want, v.Type())}
			return
		}

		switch name {
		case keyTransports:
			list, err := stringList(v.(*lua.LTable))
			if err != nil {
				firstErr = &ParseError{Message: "invalid value for install.transports", Detail: err.Error()}
				return
			}
			values[name] = list
		case keyDebug:
			values[name] = lua.LVAsBool(v)
		default:
			values[name] = v.String()
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.WithHint(
			&ParseError{Message: "unknown keys in 'install'", Detail: strings.Join(unknown, ", ")},
			"valid keys are owner, repo, base_url, install_dir, transports and debug",
		)
	}

	return values, nil
}

// stringList converts a Lua array of strings.
func stringList(t *lua.LTable) ([]string, error) {
	var out []string
	var err error

	n := t.Len()
	for i := 1; i <= n; i++ {
		v := t.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			err = fmt.Errorf("element %d: expected string, got %s", i, v.Type())
			break
		}
		out = append(out, string(s))
	}

	return out, err
}

// trimTraceback drops the Lua stack traceback from an error message.
func trimTraceback(detail string) string {
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		return strings.TrimSpace(detail[:idx])
	}
	return detail
}
