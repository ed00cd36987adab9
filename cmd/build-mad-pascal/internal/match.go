package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/build-mad-pascal/pkgs/buildsys"
	"github.com/goplus/build-mad-pascal/pkgs/buildsys/madpascal"
)

var matchCmd = &cobra.Command{
	Use:   "match [line...]",
	Short: "Test compiler output against the error-match pattern",
	Long: `Match reports the file, line, column and message the editor would extract
from each line. Lines are read from standard input when none are given.`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		in = strings.NewReader(strings.Join(args, "\n"))
	}
	return matchLines(cmd.OutOrStdout(), in)
}

func matchLines(w io.Writer, in io.Reader) error {
	patterns := []string{madpascal.ErrorMatch}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		m, ok := buildsys.MatchError(patterns, sc.Text())
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s:%s:%s: %s\n", m.File, m.Line, m.Col, m.Message)
	}
	return sc.Err()
}
