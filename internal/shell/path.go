package shell

import (
	"os"
	"path"
	"regexp"
	"strings"
)

// windowsVarPattern matches %VAR% references in registry PATH values.
var windowsVarPattern = regexp.MustCompile(`%([^%]+)%`)

// listSeparator returns the search path separator.
func listSeparator(windows bool) string {
	if windows {
		return windowsListSeparator
	}
	return unixListSeparator
}

// SplitPath splits a search path value, dropping empty segments.
func SplitPath(value string, windows bool) []string {
	var out []string
	for _, seg := range strings.Split(value, listSeparator(windows)) {
		if strings.TrimSpace(seg) != "" {
			out = append(out, seg)
		}
	}
	return out
}

// AppendPath adds dir as the last segment of value.
func AppendPath(value, dir string, windows bool) string {
	sep := listSeparator(windows)
	value = strings.TrimRight(value, sep)
	if strings.TrimSpace(value) == "" {
		return dir
	}
	return value + sep + dir
}

// ContainsDir reports whether any segment of value is equivalent to dir.
func ContainsDir(value, dir string, windows bool) bool {
	return containsDir(value, dir, windows, os.Getenv)
}

func containsDir(value, dir string, windows bool, getenv func(string) string) bool {
	want := normalizeEntry(dir, windows, getenv)
	if want == "" {
		return false
	}
	for _, seg := range SplitPath(value, windows) {
		if normalizeEntry(seg, windows, getenv) == want {
			return true
		}
	}
	return false
}

// normalizeEntry canonicalizes a search path segment for comparison:
// surrounding space and quotes trimmed, environment references expanded,
// separators unified, trailing separators dropped, and on Windows lowercased.
func normalizeEntry(entry string, windows bool, getenv func(string) string) string {
	s := strings.TrimSpace(entry)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if windows {
		s = windowsVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
			if v := getenv(strings.Trim(ref, "%")); v != "" {
				return v
			}
			return ref
		})
		return cleanWindows(s)
	}

	s = os.Expand(s, getenv)
	if s == "" {
		return ""
	}
	return path.Clean(s)
}

// cleanWindows normalizes a Windows path independent of the host OS.
func cleanWindows(p string) string {
	p = strings.ReplaceAll(p, "/", `\`)

	prefix := ""
	if strings.HasPrefix(p, `\\`) {
		prefix, p = `\\`, strings.TrimLeft(p, `\`)
	}

	var parts []string
	for _, part := range strings.Split(p, `\`) {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 && strings.HasSuffix(parts[len(parts)-1], ":") {
				continue
			}
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
				continue
			}
		}
		parts = append(parts, part)
	}

	cleaned := prefix + strings.Join(parts, `\`)
	// A bare drive keeps its root: "C:" and "C:\" are the same directory here.
	if len(parts) == 1 && strings.HasSuffix(parts[0], ":") {
		cleaned += `\`
	}
	return strings.ToLower(cleaned)
}
