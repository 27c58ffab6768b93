package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherResolve(t *testing.T) {
	t.Parallel()

	t.Run("shorthands", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		for token, want := range map[string]*Command{"dir": s.ls, "cd": s.wc, "?": s.help} {
			res, err := s.dispatcher.Resolve([]string{token, "arg"})
			require.NoError(t, err, token)
			assert.Equal(t, want, res.Command(), token)
			assert.Equal(t, []string{"arg"}, res.Args, token)
		}
	})
	t.Run("shorthand wins over registered commands", func(t *testing.T) {
		t.Parallel()
		ls := &Command{Name: "ls", Exec: noopExec}
		dir := &Command{Name: "dir", Exec: noopExec}
		reg, err := Build(&Command{
			Name:        "root",
			Kind:        Group,
			SubCommands: []*Command{dir, {Name: "directory", Exec: noopExec}, ls},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{"dir": {"ls"}}})
		require.NoError(t, err)

		res, err := d.Resolve([]string{"dir"})
		require.NoError(t, err)
		assert.Same(t, ls, res.Command())
	})
	t.Run("shorthands only apply at the root", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		_, err := s.dispatcher.Resolve([]string{"nested", "cd"})
		var unknown *UnknownCommandError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "todo nested", unknown.Path)
		assert.Equal(t, "cd", unknown.Token)
	})
	t.Run("recursive prefix resolution", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		res, err := s.dispatcher.Resolve([]string{"n", "he", "--mandatory-flag", "x"})
		require.NoError(t, err)
		assert.Same(t, s.hello, res.Command())
		assert.Equal(t, []string{"todo", "nested", "hello"}, res.Names())
		assert.Equal(t, "todo nested hello", res.String())
		assert.Equal(t, []string{"--mandatory-flag", "x"}, res.Args)
	})
	t.Run("ambiguous prefix", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		// "e" matches only "empty"; hidden "secret" is not a candidate for "s".
		res, err := s.dispatcher.Resolve([]string{"e"})
		require.NoError(t, err)
		assert.Same(t, s.empty, res.Command())

		reg, err := Build(&Command{
			Name: "datafed",
			Kind: Group,
			SubCommands: []*Command{
				{Name: "data", Kind: Group},
				{Name: "dataset", Kind: Group},
			},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}})
		require.NoError(t, err)
		_, err = d.Resolve([]string{"dat"})
		var ambiguous *AmbiguousCommandError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, []string{"data", "dataset"}, ambiguous.Candidates)
		assert.Equal(t, "datafed", ambiguous.Path)

		res, err = d.Resolve([]string{"data"})
		require.NoError(t, err)
		assert.Equal(t, "datafed data", res.String())
	})
	t.Run("hidden commands resolve by exact name only", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		res, err := s.dispatcher.Resolve([]string{"secret"})
		require.NoError(t, err)
		assert.Same(t, s.secret, res.Command())

		_, err = s.dispatcher.Resolve([]string{"sec"})
		var unknown *UnknownCommandError
		require.ErrorAs(t, err, &unknown)
		assert.NotContains(t, unknown.Suggestions, "secret")
	})
	t.Run("invalid option", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		_, err := s.dispatcher.Resolve([]string{"nested", "-z", "sub"})
		var invalid *InvalidOptionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "-z", invalid.Token)
		assert.EqualError(t, err, `command "todo nested": invalid option: -z`)
	})
	t.Run("unknown command with suggestions", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		_, err := s.dispatcher.Resolve([]string{"nested", "hallo"})
		var unknown *UnknownCommandError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"hello"}, unknown.Suggestions)
		assert.Contains(t, err.Error(), `unknown command "hallo". Did you mean one of these?`)
		assert.Contains(t, err.Error(), "\thello")
	})
	t.Run("bare group", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		res, err := s.dispatcher.Resolve(nil)
		require.NoError(t, err)
		assert.Same(t, s.root, res.Command())

		res, err = s.dispatcher.Resolve([]string{"--verbose", "nested", "--force"})
		require.NoError(t, err)
		assert.Same(t, s.nested, res.Command())
		assert.Equal(t, []string{"--verbose", "--force"}, res.Args)
	})
	t.Run("help flag stops resolution", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		res, err := s.dispatcher.Resolve([]string{"nested", "-h", "bogus"})
		require.NoError(t, err)
		assert.True(t, res.Help)
		assert.Same(t, s.nested, res.Command())
	})
	t.Run("logs resolution steps", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&buf)
		logger.SetLevel(logrus.DebugLevel)

		reg, err := Build(&Command{
			Name:        "root",
			Kind:        Group,
			SubCommands: []*Command{{Name: "create", Exec: noopExec}},
		})
		require.NoError(t, err)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{}, Logger: logger})
		require.NoError(t, err)
		_, err = d.Resolve([]string{"cr"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "matched prefix")
		assert.Contains(t, buf.String(), `command="root create"`)
	})
}

func TestDispatcherCanonicalize(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	tests := []struct {
		args []string
		want []string
	}{
		{args: []string{"ad", "item"}, want: []string{"add", "item"}},
		{args: []string{"n", "s", "-e", "x"}, want: []string{"nested", "sub", "-e", "x"}},
		{args: []string{"--verbose", "ne", "hel"}, want: []string{"nested", "hello", "--verbose"}},
		{args: []string{"dir"}, want: []string{"ls"}},
		{args: []string{"cd", "c/123"}, want: []string{"wc", "c/123"}},
		{args: []string{"?", "nested"}, want: []string{"help", "nested"}},
		{args: []string{"a", "-h"}, want: []string{"add", "--help"}},
		{args: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := s.dispatcher.Canonicalize(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := s.dispatcher.Canonicalize([]string{"bogus"})
	require.Error(t, err)
}

func TestNewDispatcher(t *testing.T) {
	t.Parallel()

	newRegistry := func(t *testing.T) *Registry {
		t.Helper()
		reg, err := Build(&Command{
			Name: "root",
			Kind: Group,
			SubCommands: []*Command{
				{Name: "ls", Exec: noopExec},
			},
		})
		require.NoError(t, err)
		return reg
	}

	t.Run("default shorthands need their targets", func(t *testing.T) {
		t.Parallel()
		_, err := NewDispatcher(newRegistry(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a registered command")
	})
	t.Run("invalid shorthand", func(t *testing.T) {
		t.Parallel()
		_, err := NewDispatcher(newRegistry(t), &DispatcherOptions{Shorthands: map[string][]string{"-l": {"ls"}}})
		require.ErrorContains(t, err, `invalid shorthand "-l"`)
		_, err = NewDispatcher(newRegistry(t), &DispatcherOptions{Shorthands: map[string][]string{"l": nil}})
		require.Error(t, err)
	})
	t.Run("freezes the registry", func(t *testing.T) {
		t.Parallel()
		reg := newRegistry(t)
		d, err := NewDispatcher(reg, &DispatcherOptions{Shorthands: map[string][]string{"dir": {"ls"}}})
		require.NoError(t, err)
		assert.Same(t, reg, d.Registry())
		require.ErrorIs(t, reg.Register(nil, &Command{Name: "wc"}), ErrRegistryFrozen)
	})
	t.Run("nil registry", func(t *testing.T) {
		t.Parallel()
		_, err := NewDispatcher(nil, nil)
		require.Error(t, err)
	})
}
