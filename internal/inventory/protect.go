package inventory

import (
	"path/filepath"
	"strings"
)

// Rules enumerates protected files. A path is protected when its base name
// equals one of Names, starts with one of Prefixes (written with a trailing
// "*"), or contains one of Keywords.
type Rules struct {
	Names    []string `yaml:"names"`
	Prefixes []string `yaml:"prefixes"`
	Keywords []string `yaml:"keywords"`
}

// IsProtected reports whether path matches any rule.
func (r Rules) IsProtected(path string) bool {
	base := filepath.Base(path)
	for _, n := range r.Names {
		if base == n {
			return true
		}
	}
	for _, p := range r.Prefixes {
		if strings.HasPrefix(base, strings.TrimSuffix(p, "*")) {
			return true
		}
	}
	// a trailing slash lets "/IndexedDB/" match the directory itself
	withSlash := path + "/"
	for _, k := range r.Keywords {
		if strings.Contains(withSlash, k) {
			return true
		}
	}
	return false
}

// With returns a copy extended by extra patterns. Patterns ending in "*"
// become prefixes, patterns containing "/" become keywords, anything else
// is an exact name.
func (r Rules) With(extra []string) Rules {
	out := Rules{
		Names:    append([]string(nil), r.Names...),
		Prefixes: append([]string(nil), r.Prefixes...),
		Keywords: append([]string(nil), r.Keywords...),
	}
	for _, e := range extra {
		switch {
		case e == "" || e == "*":
			continue
		case strings.HasSuffix(e, "*"):
			out.Prefixes = append(out.Prefixes, e)
		case strings.Contains(e, "/"):
			out.Keywords = append(out.Keywords, e)
		default:
			out.Names = append(out.Names, e)
		}
	}
	return out
}
