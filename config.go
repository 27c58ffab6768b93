package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// OutputMode selects how command output is rendered.
type OutputMode int

const (
	OutputText OutputMode = iota
	OutputJSON
)

func (m OutputMode) String() string {
	switch m {
	case OutputText:
		return "text"
	case OutputJSON:
		return "json"
	default:
		return "unknown"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *OutputMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "text", "":
		*m = OutputText
	case "json":
		*m = OutputJSON
	default:
		return fmt.Errorf("unknown output mode %q", text)
	}
	return nil
}

// MaxVerbosity is the highest supported verbosity level.
const MaxVerbosity = 2

// RunConfig holds the settings that top-level options and the config file control. It is built
// once per run and handed to commands by value through [State].
type RunConfig struct {
	Interactive bool
	Output      OutputMode
	Verbosity   int
	ManualAuth  bool
	// Context is the user or project ID used to resolve aliases.
	Context string
}

// DefaultRunConfig returns the configuration used when neither a config file nor options say
// otherwise.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Interactive: true,
		Output:      OutputText,
		Verbosity:   1,
	}
}

// WithScript returns a copy of c in non-interactive scripting mode: all output is JSON.
func (c RunConfig) WithScript() RunConfig {
	c.Interactive = false
	c.Output = OutputJSON
	return c
}

// WithVerbosity returns a copy of c with the given verbosity level.
func (c RunConfig) WithVerbosity(level int) (RunConfig, error) {
	if level < 0 || level > MaxVerbosity {
		return c, fmt.Errorf("verbosity must be between 0 and %d, got %d", MaxVerbosity, level)
	}
	c.Verbosity = level
	return c, nil
}

type fileConfig struct {
	Output     OutputMode `toml:"output"`
	Verbosity  *int       `toml:"verbosity"`
	Context    string     `toml:"context"`
	Script     bool       `toml:"script"`
	ManualAuth bool       `toml:"manual_auth"`
}

// DecodeRunConfig reads a TOML config from r on top of [DefaultRunConfig]. Unknown keys are an
// error.
func DecodeRunConfig(r io.Reader) (RunConfig, error) {
	var fc fileConfig
	md, err := toml.NewDecoder(r).Decode(&fc)
	if err != nil {
		return RunConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return RunConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg := DefaultRunConfig()
	cfg.Output = fc.Output
	cfg.Context = fc.Context
	cfg.ManualAuth = fc.ManualAuth
	if fc.Verbosity != nil {
		if cfg, err = cfg.WithVerbosity(*fc.Verbosity); err != nil {
			return RunConfig{}, err
		}
	}
	if fc.Script {
		cfg = cfg.WithScript()
	}
	return cfg, nil
}

// LoadRunConfig reads the TOML config file at path. A missing file yields [DefaultRunConfig].
func LoadRunConfig(path string) (RunConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultRunConfig(), nil
		}
		return RunConfig{}, err
	}
	defer f.Close()
	cfg, err := DecodeRunConfig(f)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
