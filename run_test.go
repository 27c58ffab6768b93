package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopExec(ctx context.Context, s *State) error { return nil }

func TestRun(t *testing.T) {
	t.Parallel()

	newCounter := func(t *testing.T, count *int) *Dispatcher {
		t.Helper()
		reg, err := Build(&Command{
			Name:  "count",
			Kind:  Group,
			Usage: "count [flags] [command]",
			Options: []Option{
				{Flags: []string{"--dry-run"}, Help: "dry run"},
			},
			SubCommands: []*Command{
				{
					Name:      "version",
					ShortHelp: "show version",
					Exec: func(ctx context.Context, s *State) error {
						_, _ = s.Stdout.Write([]byte("1.0.0\n"))
						return nil
					},
				},
			},
			Exec: func(ctx context.Context, s *State) error {
				if GetFlag[bool](s, "dry-run") {
					return nil
				}
				*count++
				return nil
			},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}})
		require.NoError(t, err)
		return d
	}

	t.Run("parse and run", func(t *testing.T) {
		t.Parallel()
		var count int
		d := newCounter(t, &count)

		output := bytes.NewBuffer(nil)
		err := ParseAndRun(context.Background(), d, []string{"vers"}, &RunOptions{
			Stdout: output,
		})
		require.NoError(t, err)
		require.Equal(t, "1.0.0\n", output.String())

		// Run the command 3 times
		for i := 0; i < 3; i++ {
			err := ParseAndRun(context.Background(), d, nil, nil)
			require.NoError(t, err)
		}
		require.Equal(t, 3, count)
		// Run with dry-run flag
		err = ParseAndRun(context.Background(), d, []string{"--dry-run"}, nil)
		require.NoError(t, err)
		require.Equal(t, 3, count)
	})
	t.Run("typo suggestion", func(t *testing.T) {
		t.Parallel()
		var count int
		d := newCounter(t, &count)

		err := ParseAndRun(context.Background(), d, []string{"verzion"}, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), `unknown command "verzion". Did you mean one of these?`)
		require.Contains(t, err.Error(), `	version`)
	})
	t.Run("help flag prints usage", func(t *testing.T) {
		t.Parallel()
		var count int
		d := newCounter(t, &count)

		output := bytes.NewBuffer(nil)
		err := ParseAndRun(context.Background(), d, []string{"--help"}, &RunOptions{Stdout: output})
		require.ErrorIs(t, err, flag.ErrHelp)
		assert.Contains(t, output.String(), "Usage:\n  count [flags] [command]")
		assert.Contains(t, output.String(), "version    show version")
		assert.Equal(t, 0, count)
	})
	t.Run("bare group without exec shows help", func(t *testing.T) {
		t.Parallel()
		reg, err := Build(&Command{
			Name: "datafed",
			Kind: Group,
			SubCommands: []*Command{
				{Name: "data", Kind: Group, ShortHelp: "Data subcommands.", SubCommands: []*Command{
					{Name: "create", ShortHelp: "Create a new data record.", Exec: noopExec},
				}},
			},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}})
		require.NoError(t, err)

		output := bytes.NewBuffer(nil)
		err = ParseAndRun(context.Background(), d, []string{"d"}, &RunOptions{Stdout: output})
		require.ErrorIs(t, err, flag.ErrHelp)
		assert.Contains(t, output.String(), "Data subcommands.")
		assert.Contains(t, output.String(), "create    Create a new data record.")
	})
	t.Run("show help error code", func(t *testing.T) {
		t.Parallel()
		reg, err := Build(&Command{
			Name: "root",
			Kind: Group,
			SubCommands: []*Command{
				{
					Name:      "wc",
					ShortHelp: "Change working collection.",
					Exec: func(ctx context.Context, s *State) error {
						return NewError(ErrShowHelp, errors.New("missing collection ID"))
					},
				},
			},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}})
		require.NoError(t, err)

		stderr := bytes.NewBuffer(nil)
		err = ParseAndRun(context.Background(), d, []string{"wc"}, &RunOptions{Stderr: stderr})
		require.EqualError(t, err, "missing collection ID")
		var cliErr *Error
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, ErrShowHelp, cliErr.Code())
		assert.Contains(t, stderr.String(), "Change working collection.")
	})
	t.Run("run config", func(t *testing.T) {
		t.Parallel()
		var got RunConfig
		reg, err := Build(&Command{
			Name: "datafed",
			Kind: Group,
			Options: []Option{
				{Flags: []string{"-s", "--script"}},
			},
			SubCommands: []*Command{
				{
					Name: "ls",
					Options: []Option{
						{Flags: []string{"-X", "--context"}, Kind: StringValue},
					},
					Exec: func(ctx context.Context, s *State) error {
						got = s.Config
						return nil
					},
				},
			},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}})
		require.NoError(t, err)

		base := DefaultRunConfig()
		base.Context = "u/alice"
		configure := func(base RunConfig, s *State) (RunConfig, error) {
			if GetFlag[bool](s, "script") {
				base = base.WithScript()
			}
			if c := GetFlag[string](s, "context"); c != "" {
				base.Context = c
			}
			return base, nil
		}
		err = ParseAndRun(context.Background(), d, []string{"-s", "ls"}, &RunOptions{Config: &base, Configure: configure})
		require.NoError(t, err)
		assert.Equal(t, RunConfig{Interactive: false, Output: OutputJSON, Verbosity: 1, Context: "u/alice"}, got)

		err = ParseAndRun(context.Background(), d, []string{"ls", "-X", "p/proj"}, &RunOptions{Config: &base, Configure: configure})
		require.NoError(t, err)
		assert.Equal(t, RunConfig{Interactive: true, Output: OutputText, Verbosity: 1, Context: "p/proj"}, got)
		assert.Equal(t, "u/alice", base.Context)

		failing := func(RunConfig, *State) (RunConfig, error) { return RunConfig{}, errors.New("bad config") }
		err = ParseAndRun(context.Background(), d, []string{"ls"}, &RunOptions{Configure: failing})
		require.EqualError(t, err, `command "datafed ls": bad config`)
	})
	t.Run("not parsed", func(t *testing.T) {
		t.Parallel()
		err := Run(context.Background(), nil, nil)
		require.EqualError(t, err, "command has not been parsed")
	})
}
