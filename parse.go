package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mfridman/xflag"
)

// Invocation is a resolved command with its parsed flags and arguments, ready for [Run].
type Invocation struct {
	Resolution *Resolution
	State      *State
}

// Parse resolves args to a command and parses the options of every command on its path. It
// returns an error if resolution or parsing fails at any point.
//
// When a help flag is present, Parse returns the partial invocation together with an error
// wrapping [flag.ErrHelp], so the caller can show the usage of the resolved command.
func Parse(d *Dispatcher, args []string) (*Invocation, error) {
	if d == nil {
		return nil, errors.New("failed to parse: dispatcher is nil")
	}
	res, err := d.Resolve(args)
	if err != nil {
		return nil, err
	}
	inv := &Invocation{
		Resolution: res,
		State:      &State{commandPath: res.Path},
	}
	if res.Help {
		return inv, fmt.Errorf("command %q: %w", res.String(), flag.ErrHelp)
	}
	current := res.Command()
	if !current.IsGroup() && current.Exec == nil {
		return nil, &NoExecError{Path: res.String()}
	}

	// Split args at the -- delimiter if present
	argsToParse := res.Args
	var remainingArgs []string
	for i, arg := range res.Args {
		if arg == "--" {
			argsToParse = res.Args[:i]
			remainingArgs = res.Args[i+1:]
			break
		}
	}

	fset := flag.NewFlagSet(res.String(), flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	// Add options in reverse order so the resolved command wins over its parents.
	for i := len(res.Path) - 1; i >= 0; i-- {
		for _, o := range res.Path[i].Options {
			o.define(fset)
		}
	}
	if err := xflag.ParseToEnd(fset, argsToParse); err != nil {
		return nil, fmt.Errorf("command %q: %w", res.String(), err)
	}

	var missing []string
	for _, o := range current.Options {
		if !o.Required {
			continue
		}
		set := false
		fset.Visit(func(f *flag.Flag) {
			if o.has(f.Name) {
				set = true
			}
		})
		if !set {
			missing = append(missing, o.displayName())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("command %q: required flag(s) %q not set", res.String(), strings.Join(missing, ", "))
	}

	var finalArgs []string
	finalArgs = append(finalArgs, fset.Args()...)
	finalArgs = append(finalArgs, remainingArgs...)
	inv.State.Args = finalArgs
	inv.State.flags = fset
	return inv, nil
}
