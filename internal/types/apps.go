package types

// Login item scopes.
const (
	ScopeUser   = "user"
	ScopeSystem = "system"
)

// LoginItem is a launchd job definition found in a LaunchAgents or
// LaunchDaemons directory.
type LoginItem struct {
	Label     string
	Program   string
	Arguments []string
	RunAtLoad bool
	PlistPath string
	Scope     string // ScopeUser or ScopeSystem
	Domain    string // launchctl domain, e.g. gui/501 or system
	Enabled   bool
}

// Name returns the program's base name, or the label when no program is set.
func (l LoginItem) Name() string {
	prog := l.Program
	if prog == "" && len(l.Arguments) > 0 {
		prog = l.Arguments[0]
	}
	if prog == "" {
		return l.Label
	}
	for i := len(prog) - 1; i >= 0; i-- {
		if prog[i] == '/' {
			return prog[i+1:]
		}
	}
	return prog
}

// SystemApp is a bundled application with a removal risk assessment.
type SystemApp struct {
	BundleID string
	Name     string
	Kind     string
	Risk     RiskTier
	Path     string // empty when not installed
	Size     int64
}
