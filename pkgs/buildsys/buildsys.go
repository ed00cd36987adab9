package buildsys

import "regexp"

// Placeholders expanded by the host before a target is run.
const (
	FileActive     = "{FILE_ACTIVE}"
	FileActivePath = "{FILE_ACTIVE_PATH}"
)

// Target is one build step handed to the host. Field names follow the host's
// builder format so a slice of targets can be serialized as-is.
type Target struct {
	Name            string   `json:"name" yaml:"name"`
	Exec            string   `json:"exec" yaml:"exec"`
	Args            []string `json:"args" yaml:"args"`
	Cwd             string   `json:"cwd" yaml:"cwd"`
	Sh              bool     `json:"sh" yaml:"sh"`
	AtomCommandName string   `json:"atomCommandName" yaml:"atomCommandName"`
	ErrorMatch      []string `json:"errorMatch" yaml:"errorMatch"`
}

// Builder captures what the host's build orchestration needs from a provider.
// The host runs the returned targets itself and matches their output against
// each target's ErrorMatch.
type Builder interface {
	// NiceName is shown in the host's builder list.
	NiceName() string

	// IsEligible reports whether the builder should be offered for the project.
	IsEligible() bool

	// Settings returns the targets in the order they are offered.
	Settings() []Target

	// OnRefresh registers fn to be called when Settings would change.
	// The returned function removes the registration.
	OnRefresh(fn func()) (unsubscribe func())
}

// Match holds the captures of an error-match pattern.
type Match struct {
	File    string
	Line    string
	Col     string
	Message string
}

// MatchError tries each pattern against line and returns the captures of the
// first one that matches. Patterns that fail to compile are skipped.
func MatchError(patterns []string, line string) (Match, bool) {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		sub := re.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		var m Match
		for i, name := range re.SubexpNames() {
			switch name {
			case "file":
				m.File = sub[i]
			case "line":
				m.Line = sub[i]
			case "col":
				m.Col = sub[i]
			case "message":
				m.Message = sub[i]
			}
		}
		return m, true
	}
	return Match{}, false
}
