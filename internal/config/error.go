package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found in a tablodl config file so they
// can be reported together by `tablodl config test`.
type ConfigError struct {
	Path    string
	Missing []string // "VAR" or "VAR: message" for ${VAR:?message}
	Errors  []string // field-prefixed messages from Validate
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			b.WriteString("\n  - " + msg)
		}
	}
	return b.String()
}

// HasErrors reports whether any variable or field problem was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}
