package cli

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// OptionPrefix is the character that marks a token as an option rather than a command name.
const OptionPrefix = "-"

// ValueKind describes what an option accepts on the command line.
type ValueKind int

const (
	// FlagValue is a boolean switch that takes no argument.
	FlagValue ValueKind = iota
	// StringValue takes a single free-form argument.
	StringValue
	// ChoiceValue takes a single argument restricted to Option.Choices.
	ChoiceValue
	// TupleValue is repeatable; each occurrence takes Option.Arity comma separated values, the
	// first of which is restricted to Option.Choices when set.
	TupleValue
)

func (k ValueKind) String() string {
	switch k {
	case FlagValue:
		return "flag"
	case StringValue:
		return "string"
	case ChoiceValue:
		return "choice"
	case TupleValue:
		return "tuple"
	default:
		return "unknown"
	}
}

// Option describes a single command option. The same descriptor drives flag parsing and the
// generated help and documentation.
type Option struct {
	// Flags lists the spellings of the option, short and long, each including its leading dashes.
	//
	// Example: []string{"-a", "--alias"}
	Flags []string

	Kind     ValueKind
	Required bool
	Help     string

	// Default is the textual default value. For FlagValue it must parse as a bool.
	Default string
	// Choices restricts ChoiceValue values and the first element of TupleValue values.
	Choices []string
	// Arity is the number of elements in a TupleValue. Defaults to 2.
	Arity int
	// Metavar names the value in help output. Defaults to the value kind.
	Metavar string
}

// Name returns the canonical name of the option: its longest spelling without leading dashes.
func (o Option) Name() string {
	var name string
	for _, n := range o.names() {
		if len(n) > len(name) {
			name = n
		}
	}
	return name
}

// displayName returns the declared spelling of the canonical name, dashes included.
func (o Option) displayName() string {
	name := o.Name()
	for _, f := range o.Flags {
		if strings.TrimLeft(f, OptionPrefix) == name {
			return f
		}
	}
	return formatFlagName(name)
}

func (o Option) names() []string {
	names := make([]string, 0, len(o.Flags))
	for _, f := range o.Flags {
		names = append(names, strings.TrimLeft(f, OptionPrefix))
	}
	return names
}

func (o Option) has(name string) bool {
	return slices.Contains(o.names(), name)
}

func (o Option) takesValue() bool {
	return o.Kind != FlagValue
}

func (o Option) arity() int {
	if o.Arity == 0 {
		return 2
	}
	return o.Arity
}

func (o Option) validate() error {
	if len(o.Flags) == 0 {
		return errors.New("option has no flags")
	}
	for _, f := range o.Flags {
		name := strings.TrimLeft(f, OptionPrefix)
		switch {
		case !strings.HasPrefix(f, OptionPrefix):
			return fmt.Errorf("option flag %q must start with %q", f, OptionPrefix)
		case name == "":
			return fmt.Errorf("option flag %q has no name", f)
		case strings.ContainsAny(name, "= \t"):
			return fmt.Errorf("option flag %q contains invalid characters", f)
		}
	}
	switch o.Kind {
	case FlagValue:
		if o.Default != "" {
			if _, err := strconv.ParseBool(o.Default); err != nil {
				return fmt.Errorf("option %q: invalid boolean default %q", o.Name(), o.Default)
			}
		}
	case StringValue:
	case ChoiceValue:
		if len(o.Choices) == 0 {
			return fmt.Errorf("option %q: choice option has no choices", o.Name())
		}
		if o.Default != "" && !slices.Contains(o.Choices, o.Default) {
			return fmt.Errorf("option %q: default %q is not one of %s", o.Name(), o.Default, strings.Join(o.Choices, "|"))
		}
	case TupleValue:
		if o.Arity < 0 || o.Arity == 1 {
			return fmt.Errorf("option %q: tuple arity must be at least 2", o.Name())
		}
	default:
		return fmt.Errorf("option %q: unknown value kind %d", o.Name(), o.Kind)
	}
	return nil
}

// define registers the option in fset under every spelling not already taken. All spellings
// share one value.
func (o Option) define(fset *flag.FlagSet) {
	var free []string
	for _, n := range o.names() {
		if fset.Lookup(n) == nil {
			free = append(free, n)
		}
	}
	if len(free) == 0 {
		return
	}
	primary := free[0]
	switch o.Kind {
	case FlagValue:
		def, _ := strconv.ParseBool(o.Default)
		fset.Bool(primary, def, o.Help)
	case StringValue:
		fset.String(primary, o.Default, o.Help)
	case ChoiceValue:
		fset.Var(&choiceValue{choices: o.Choices, value: o.Default}, primary, o.Help)
	case TupleValue:
		fset.Var(&tupleValue{arity: o.arity(), choices: o.Choices}, primary, o.Help)
	}
	value := fset.Lookup(primary).Value
	for _, n := range free[1:] {
		fset.Var(value, n, o.Help)
	}
}

// valueLabel returns the placeholder shown after the flags in help output.
func (o Option) valueLabel() string {
	if o.Metavar != "" {
		return o.Metavar
	}
	switch o.Kind {
	case StringValue:
		return "string"
	case ChoiceValue:
		return "[" + strings.Join(o.Choices, "|") + "]"
	case TupleValue:
		first := "string"
		if len(o.Choices) > 0 {
			first = "[" + strings.Join(o.Choices, "|") + "]"
		}
		parts := []string{first}
		for i := 1; i < o.arity(); i++ {
			parts = append(parts, "string")
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func validateOptions(opts []Option) error {
	seen := make(map[string]bool)
	for _, o := range opts {
		if err := o.validate(); err != nil {
			return err
		}
		for _, n := range o.names() {
			if seen[n] {
				return fmt.Errorf("option flag %q defined more than once", n)
			}
			seen[n] = true
		}
	}
	return nil
}

type choiceValue struct {
	choices []string
	value   string
}

func (v *choiceValue) String() string { return v.value }

func (v *choiceValue) Set(s string) error {
	if !slices.Contains(v.choices, s) {
		return fmt.Errorf("must be one of %s", strings.Join(v.choices, "|"))
	}
	v.value = s
	return nil
}

func (v *choiceValue) Get() any { return v.value }

type tupleValue struct {
	arity   int
	choices []string
	values  [][]string
}

func (v *tupleValue) String() string {
	var parts []string
	for _, t := range v.values {
		parts = append(parts, strings.Join(t, ","))
	}
	return strings.Join(parts, " ")
}

func (v *tupleValue) Set(s string) error {
	parts := strings.SplitN(s, ",", v.arity)
	if len(parts) != v.arity {
		return fmt.Errorf("expected %d comma separated values", v.arity)
	}
	if len(v.choices) > 0 && !slices.Contains(v.choices, parts[0]) {
		return fmt.Errorf("first value must be one of %s", strings.Join(v.choices, "|"))
	}
	v.values = append(v.values, parts)
	return nil
}

func (v *tupleValue) Get() any { return v.values }
