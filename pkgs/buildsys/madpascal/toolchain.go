package madpascal

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	exec "golang.org/x/sys/execabs"

	"github.com/goplus/build-mad-pascal/pkgs/buildsys"
)

const (
	compilerName  = "mp"
	assemblerName = "mads"
)

// ErrorMatch matches diagnostics of the form "file(line,col) message".
const ErrorMatch = `(?<file>.+)\((?<line>\d+)\,(?<col>\d+)\) (?<message>.+)`

// assemblerFileArg is the first assembler argument, trailing space included.
const assemblerFileArg = buildsys.FileActive + " "

var whitespace = regexp.MustCompile(`\s+`)

// Lookup runs tool with a single argument and returns its standard output.
type Lookup func(ctx context.Context, tool, arg string) ([]byte, error)

// Toolchain describes which stages are built, and for which OS.
type Toolchain struct {
	GOOS     string
	Assemble bool
}

// Which returns the executable lookup tool for goos.
func Which(goos string) string {
	if goos == "windows" {
		return "where"
	}
	return "which"
}

func (tc Toolchain) exe(name string) string {
	if tc.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// Executables returns the file names of the required executables, compiler
// first.
func (tc Toolchain) Executables() []string {
	names := []string{tc.exe(compilerName)}
	if tc.Assemble {
		names = append(names, tc.exe(assemblerName))
	}
	return names
}

// Probe reports whether every required executable is found under
// cfg.InstallPath. Each executable is looked up once, one after the other;
// an error or empty output counts as a miss.
func (tc Toolchain) Probe(ctx context.Context, cfg Config, lookup Lookup) bool {
	if cfg.AlwaysEligible {
		return true
	}
	if lookup == nil {
		lookup = ExecLookup
	}
	dir := strings.TrimSpace(cfg.InstallPath)
	which := Which(tc.GOOS)
	found := true
	for _, name := range tc.Executables() {
		out, err := lookup(ctx, which, tc.lookupArg(dir, name))
		if err != nil || len(out) == 0 {
			found = false
		}
	}
	return found
}

// lookupArg uses the "dir:pattern" form on windows, which restricts where to
// dir instead of the PATH.
func (tc Toolchain) lookupArg(dir, name string) string {
	if tc.GOOS == "windows" {
		return dir + ":" + name
	}
	return dir + name
}

// Settings returns one target per stage. Exec is the install path and the
// file name concatenated as-is: the install path must end with a separator.
func (tc Toolchain) Settings(cfg Config) []buildsys.Target {
	dir := strings.TrimSpace(cfg.InstallPath)
	errorMatch := []string{ErrorMatch}

	targets := []buildsys.Target{{
		Name:            "Mad-Pascal",
		Exec:            dir + tc.exe(compilerName),
		Args:            []string{buildsys.FileActive},
		Cwd:             buildsys.FileActivePath,
		Sh:              false,
		AtomCommandName: "mad-pascal:compile",
		ErrorMatch:      errorMatch,
	}}
	if !tc.Assemble {
		return targets
	}

	args := append([]string{assemblerFileArg}, whitespace.Split(cfg.AssemblerArgs, -1)...)
	return append(targets, buildsys.Target{
		Name:            "Mad-Assembler",
		Exec:            dir + tc.exe(assemblerName),
		Args:            args,
		Cwd:             buildsys.FileActivePath,
		Sh:              false,
		AtomCommandName: "mad-pascal:assemble",
		ErrorMatch:      errorMatch,
	})
}

// ExecLookup runs tool and returns its standard output. A non-zero exit is
// returned as an error.
func ExecLookup(ctx context.Context, tool, arg string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, tool, arg)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
