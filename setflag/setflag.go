// Package setflag is a flag.Value holding a set of values drawn from a
// fixed list of options, given comma-separated or by repeating the flag.
package setflag

import (
	"fmt"
	"sort"
	"strings"
)

func New(options ...string) *SetFlag {
	sf := &SetFlag{
		values:  make(map[string]struct{}, len(options)),
		options: make(map[string]struct{}, len(options)),
	}
	for _, opt := range options {
		sf.options[opt] = struct{}{}
	}
	return sf
}

type SetFlag struct {
	options map[string]struct{}
	values  map[string]struct{}
}

// List returns the chosen values, sorted.
func (sf *SetFlag) List() []string {
	values := make([]string, 0, len(sf.values))
	for k := range sf.values {
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

// Has reports whether v was chosen. An empty set has everything.
func (sf *SetFlag) Has(v string) bool {
	if len(sf.values) == 0 {
		return true
	}
	_, ok := sf.values[v]
	return ok
}

func (sf *SetFlag) String() string {
	if sf == nil {
		return ""
	}
	return strings.Join(sf.List(), ", ")
}

func (sf *SetFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, exists := sf.options[v]; !exists {
			return fmt.Errorf("unsupported value '%s' (options: %s)", v, sf.optionList())
		}
		sf.values[v] = struct{}{}
	}
	return nil
}

func (sf *SetFlag) optionList() string {
	opts := make([]string, 0, len(sf.options))
	for k := range sf.options {
		opts = append(opts, k)
	}
	sort.Strings(opts)
	return strings.Join(opts, ", ")
}
