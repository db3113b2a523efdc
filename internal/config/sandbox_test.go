package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxedVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string // empty means the code must run
	}{
		{"string library", `x = string.upper("vekt")`, ""},
		{"table library", `t = {"http"}; table.insert(t, "curl"); x = table.concat(t, ",")`, ""},
		{"math library", `x = math.max(1, 2)`, ""},
		{"basic functions", `x = type("a") .. tostring(1) .. tonumber("2")`, ""},
		{"pairs", `for k, v in pairs({a = 1}) do end`, ""},
		{"pcall", `ok = pcall(function() error("x") end)`, ""},

		{"os not loaded", `os.execute("ls")`, "attempt to index"},
		{"io not loaded", `io.open("/etc/passwd")`, "attempt to index"},
		{"debug not loaded", `debug.getinfo(1)`, "attempt to index"},
		{"package not loaded", `x = package.path`, "attempt to index"},
		{"require blocked", `require("socket")`, "attempt to call"},
		{"dofile blocked", `dofile("/tmp/evil.lua")`, "attempt to call"},
		{"loadfile blocked", `loadfile("/tmp/evil.lua")`, "attempt to call"},
		{"load blocked", `load("return 1")`, "attempt to call"},
		{"loadstring blocked", `loadstring("return 1")`, "attempt to call"},
		{"print blocked", `print("hi")`, "attempt to call"},
		{"rawset blocked", `rawset({}, "a", 1)`, "attempt to call"},
		{"setmetatable blocked", `setmetatable({}, {})`, "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("DoString(%q) error = %v", tt.code, err)
				}
				return
			}

			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error", tt.code)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestSandboxedVM_Values(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	code := `
		result = {}
		result.upper = string.upper("vekt")
		result.sqrt = math.sqrt(16)
		local t = {1, 2, 3}
		table.remove(t, 1)
		result.concat = table.concat(t, ",")
	`
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	result := L.GetGlobal("result").(*lua.LTable)
	if got := result.RawGetString("upper").String(); got != "VEKT" {
		t.Errorf("upper = %q", got)
	}
	if got := result.RawGetString("sqrt"); lua.LVAsNumber(got) != 4 {
		t.Errorf("sqrt = %v", got)
	}
	if got := result.RawGetString("concat").String(); got != "2,3" {
		t.Errorf("concat = %q", got)
	}
}

func TestSandboxedVM_CallStackLimit(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	err := L.DoString(`local function f(n) return 1 + f(n + 1) end; f(1)`)
	if err == nil {
		t.Fatal("expected stack overflow")
	}
}
