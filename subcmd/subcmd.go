package subcmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

func New(name, doc string) *Subcommand {
	sc := &Subcommand{
		FlagSet: flag.NewFlagSet(name, flag.ContinueOnError),
		name:    name,
	}
	sc.FlagSet.Usage = func() {
		out := sc.FlagSet.Output()
		var argSuffix string
		for _, arg := range sc.args {
			argSuffix += fmt.Sprintf(" <%s>", arg.name)
		}
		fmt.Fprintf(out, "\n%s\n\n", doc)
		fmt.Fprintf(out, "  genremap %s [flags]%s\n\n", name, argSuffix)
		fmt.Fprintln(out, "flags:")
		sc.FlagSet.PrintDefaults()
		for _, arg := range sc.args {
			fmt.Fprintf(out, "  <%s> %s\n", arg.name, arg.typename)
			fmt.Fprintf(out, "  \t%s\n", arg.usage)
		}
	}
	sc.FlagSet.SetOutput(os.Stderr)
	return sc
}

type Subcommand struct {
	*flag.FlagSet
	name string
	args []arg
}

type arg struct {
	name     string
	typename string
	usage    string
}

// SetArg documents the next positional argument.
func (sc *Subcommand) SetArg(name, typname, usage string) *Subcommand {
	sc.args = append(sc.args, arg{name, typname, usage})
	return sc
}

// SetOutput sends usage and parse errors to w.
func (sc *Subcommand) SetOutput(w io.Writer) *Subcommand {
	sc.FlagSet.SetOutput(w)
	return sc
}

// Joined returns the positional arguments as one space-separated string,
// for arguments like artist names that may arrive unquoted.
func (sc *Subcommand) Joined() (string, error) {
	joined := strings.TrimSpace(strings.Join(sc.FlagSet.Args(), " "))
	if joined == "" && len(sc.args) > 0 {
		return "", fmt.Errorf("%s: <%s> is required", sc.name, sc.args[0].name)
	}
	return joined, nil
}

// Exactly returns the positional arguments, failing unless there is one
// per SetArg.
func (sc *Subcommand) Exactly() ([]string, error) {
	got := sc.FlagSet.Args()
	if len(got) != len(sc.args) {
		names := make([]string, len(sc.args))
		for i, arg := range sc.args {
			names[i] = "<" + arg.name + ">"
		}
		return nil, fmt.Errorf("%s: want %s, got %d arguments", sc.name, strings.Join(names, " "), len(got))
	}
	return got, nil
}
