// Package maincmd implements the CLI contract from spec §6: a single binary,
// no subcommands, that loads an XML program, runs it, and translates any
// fault raised along the way into the matching process exit code.
package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/machine"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/xmlload"
)

const binName = "ippcode23"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source=PATH] [--input=PATH]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source=PATH] [--input=PATH]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter for the IPPcode23 intermediate representation.

Valid flag options are:
       --source=PATH             Read the XML program from PATH instead of
                                 standard input.
       --input=PATH              Read the interpreted program's stdin (used
                                 by READ) from PATH instead of standard
                                 input.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

At least one of --source/--input must be given; the other then defaults to
standard input. Supplying neither, an unknown flag, or any positional
argument is a usage error.
`, binName)

	// version is a single hardcoded constant rather than a build-date-stamped
	// pair: this interpreter has no compilation step for --version to report
	// build provenance of, unlike a language toolchain's own binary.
	version = "1.0.0"
)

// Cmd holds the parsed command-line flags and implements mainer's Main
// entry point contract.
type Cmd struct {
	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Source string `flag:"source"`
	Input  string `flag:"input"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

// Validate enforces the usage-error cases from spec §6 that the flag parser
// itself cannot catch: stray positional arguments and omitting both
// --source and --input.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 0 {
		return fmt.Errorf("unexpected argument(s): %v", c.args)
	}
	if c.Source == "" && c.Input == "" {
		return fmt.Errorf("at least one of --source or --input must be given")
	}
	return nil
}

// Main is the mainer.Cmd entry point. It never panics on a user-program
// fault: every error path below resolves to an exit code via
// ipperr.CodeOf, matching the exit code table in spec §6.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(ipperr.BadInvocation.Code())
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return 0
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s\n", binName, version)
		return 0
	}

	code, err := c.run(stdio)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(ipperr.CodeOf(err))
	}
	return mainer.ExitCode(code)
}

// run loads and executes the program, resolving --source/--input against
// stdio.Stdin when either flag was omitted (spec §6: "the missing one
// defaults to the process's stdin").
func (c *Cmd) run(stdio mainer.Stdio) (int, error) {
	prog, err := c.loadProgram(stdio)
	if err != nil {
		return 0, err
	}

	engine := machine.New(prog)
	engine.Stdout = stdio.Stdout
	engine.Stderr = stdio.Stderr
	if c.Input != "" {
		f, err := os.Open(c.Input)
		if err != nil {
			return 0, ipperr.Wrap(ipperr.InputOpen, c.Input, err)
		}
		defer f.Close()
		engine.Stdin = f
	} else {
		engine.Stdin = stdio.Stdin
	}

	return engine.Run()
}

func (c *Cmd) loadProgram(stdio mainer.Stdio) (*program.Program, error) {
	if c.Source != "" {
		return xmlload.LoadFile(c.Source)
	}
	return xmlload.Load(stdio.Stdin)
}
