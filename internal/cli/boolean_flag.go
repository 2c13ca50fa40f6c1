package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagFalseLiteral           = "false"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"

	argumentTerminator = "--"
	longFlagPrefix     = "--"
	shortFlagPrefix    = "-"
	flagValueSeparator = "="
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue stores a parsed toggle into a configuration layer field. The field
// stays nil until the flag appears on the command line, so unset toggles never
// override the configuration file. Negated flags such as --no-line-numbers store the
// inverse of the parsed literal.
type booleanFlagValue struct {
	target  **bool
	negated bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q for flag %q", booleanFlagInvalidValueErrorLabel, input, value.flagKey)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	stored := parsed != value.negated
	*value.target = &stored
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil || *value.target == nil {
		return booleanFlagFalseLiteral
	}
	return strconv.FormatBool(**value.target != value.negated)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a toggle that accepts an optional literal value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target **bool, name string, usage string) {
	registerToggle(flagSet, target, name, false, usage)
}

// registerNegatedBooleanFlag adds a --no-* toggle that clears the target setting.
func registerNegatedBooleanFlag(flagSet *pflag.FlagSet, target **bool, name string, usage string) {
	registerToggle(flagSet, target, name, true, usage)
}

func registerToggle(flagSet *pflag.FlagSet, target **bool, name string, negated bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	flagValue := &booleanFlagValue{
		target:  target,
		negated: negated,
		flagKey: name,
	}
	flagSet.Var(flagValue, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = booleanFlagFalseLiteral
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// NormalizeArguments rewrites "--flag value" into "--flag=value" for boolean flags
// followed by a boolean literal, so "--overwrite no" works like the INI file does.
func NormalizeArguments(command *cobra.Command, arguments []string) []string {
	toggles := toggleNames(command)
	if len(toggles) == 0 || len(arguments) < 2 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	pendingToggle := ""
	for position, argument := range arguments {
		if argument == argumentTerminator {
			normalized = append(normalized, arguments[position:]...)
			return normalized
		}
		if pendingToggle != "" {
			toggle := pendingToggle
			pendingToggle = ""
			if isBooleanLiteral(argument) {
				normalized[len(normalized)-1] = toggle + flagValueSeparator + argument
				continue
			}
		}
		normalized = append(normalized, argument)
		if name, isLong := strings.CutPrefix(argument, longFlagPrefix); isLong && !strings.Contains(name, flagValueSeparator) {
			if _, isToggle := toggles[name]; isToggle {
				pendingToggle = argument
			}
		}
	}
	return normalized
}

func isBooleanLiteral(argument string) bool {
	if strings.HasPrefix(argument, shortFlagPrefix) {
		return false
	}
	_, known := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

// toggleNames gathers the names of every toggle registered on the command tree.
func toggleNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	if command == nil {
		return names
	}
	pending := []*cobra.Command{command}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, flagSet := range []*pflag.FlagSet{current.PersistentFlags(), current.Flags()} {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
					names[flag.Name] = struct{}{}
				}
			})
		}
		pending = append(pending, current.Commands()...)
	}
	return names
}
