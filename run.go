package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// ParseAndRun parses the arguments and runs the resolved command. A convenience function that
// combines [Parse] and [Run] into a single call. When help is requested, the usage of the resolved
// command is written to the output stream and the returned error wraps [flag.ErrHelp].
func ParseAndRun(
	ctx context.Context,
	d *Dispatcher,
	args []string,
	options *RunOptions,
) error {
	options = checkAndSetRunOptions(options)
	inv, err := Parse(d, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) && inv != nil {
			fmt.Fprintln(options.Stdout, inv.Resolution.Usage())
		}
		return err
	}
	return Run(ctx, inv, options)
}

// RunOptions specifies options for running a command.
type RunOptions struct {
	// Stdin, Stdout, and Stderr are the standard input, output, and error streams for the command.
	// If any of these are nil, the command will use the default streams ([os.Stdin], [os.Stdout],
	// and [os.Stderr], respectively).
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Config is the base run configuration, typically loaded with [LoadRunConfig]. If nil,
	// [DefaultRunConfig] is used.
	Config *RunConfig

	// Configure derives the final run configuration from the base one and the parsed flags. It is
	// called once, before the command executes. If nil, the base configuration is used as is.
	Configure func(base RunConfig, s *State) (RunConfig, error)
}

// Run executes a parsed invocation. It returns an error if the invocation has not been parsed.
//
// The options parameter may be nil, in which case default values are used. See [RunOptions] for
// more details.
func Run(ctx context.Context, inv *Invocation, options *RunOptions) error {
	if inv == nil || inv.State == nil || inv.Resolution == nil {
		return errors.New("command has not been parsed")
	}
	options = checkAndSetRunOptions(options)
	s := inv.State
	updateState(s, options)

	cfg := *options.Config
	if options.Configure != nil {
		var err error
		if cfg, err = options.Configure(cfg, s); err != nil {
			return fmt.Errorf("command %q: %w", s.CommandPath(), err)
		}
	}
	s.Config = cfg

	cmd := inv.Resolution.Command()
	// A bare group without its own execution function shows its help.
	if cmd.Exec == nil {
		if !cmd.IsGroup() {
			return &NoExecError{Path: s.CommandPath()}
		}
		fmt.Fprintln(s.Stdout, inv.Resolution.Usage())
		return fmt.Errorf("command %q: %w", s.CommandPath(), flag.ErrHelp)
	}
	if err := cmd.Exec(ctx, s); err != nil {
		if cliErr := (*Error)(nil); errors.As(err, &cliErr) && cliErr.code == ErrShowHelp {
			fmt.Fprintln(s.Stderr, inv.Resolution.Usage())
		}
		return err
	}
	return nil
}

func updateState(s *State, opt *RunOptions) {
	if s.Stdin == nil {
		s.Stdin = opt.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = opt.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = opt.Stderr
	}
}

func checkAndSetRunOptions(opt *RunOptions) *RunOptions {
	if opt == nil {
		opt = &RunOptions{}
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Config == nil {
		cfg := DefaultRunConfig()
		opt.Config = &cfg
	}
	return opt
}
