package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// namePattern matches GitHub owner and repository names.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Validate checks a merged configuration. The first problem found is returned.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	for _, field := range []struct{ name, value string }{
		{keyOwner, cfg.Owner},
		{keyRepo, cfg.Repo},
	} {
		if !namePattern.MatchString(field.value) {
			return &ValidationError{Field: field.name, Value: field.value, Message: "must be letters, digits, '.', '_' or '-'"}
		}
	}

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return err
	}

	if cfg.InstallDir != "" && !filepath.IsAbs(cfg.InstallDir) {
		return &ValidationError{Field: keyInstallDir, Value: cfg.InstallDir, Message: "must be an absolute path"}
	}
	if strings.ContainsAny(cfg.InstallDir, ";"+string(os.PathListSeparator)) {
		return &ValidationError{Field: keyInstallDir, Value: cfg.InstallDir, Message: "must not contain a path list separator"}
	}

	if len(cfg.Transports) == 0 {
		return &ValidationError{Field: keyTransports, Message: "at least one transport is required"}
	}
	seen := map[string]bool{}
	for _, name := range cfg.Transports {
		if !slices.Contains(KnownTransports, name) {
			return errors.WithHint(
				&ValidationError{Field: keyTransports, Value: name, Message: "unknown transport"},
				"valid transports are "+strings.Join(KnownTransports, ", "),
			)
		}
		if seen[name] {
			return &ValidationError{Field: keyTransports, Value: name, Message: "listed more than once"}
		}
		seen[name] = true
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: keyBaseURL, Value: raw, Message: err.Error()}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return &ValidationError{Field: keyBaseURL, Value: raw, Message: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &ValidationError{Field: keyBaseURL, Value: raw, Message: "missing host"}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return &ValidationError{Field: keyBaseURL, Value: raw, Message: "must not contain a query or fragment"}
	}
	return nil
}
