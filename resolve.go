package cli

import (
	"slices"
	"strings"
)

// ResolveName resolves a typed token against a set of sibling command names.
//
// An exact match always wins, even when the token is also a prefix of other siblings. Otherwise
// the token resolves to the single sibling it is a prefix of. When several siblings match, an
// [*AmbiguousCommandError] listing them in sorted order is returned. When nothing matches, a token
// starting with [OptionPrefix] yields an [*InvalidOptionError]; any other token yields ok == false
// with a nil error, and the caller decides whether that is a bare invocation or an unknown
// command.
func ResolveName(siblings []string, token string) (name string, ok bool, err error) {
	if slices.Contains(siblings, token) {
		return token, true, nil
	}
	var matches []string
	for _, s := range siblings {
		if strings.HasPrefix(s, token) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		if strings.HasPrefix(token, OptionPrefix) {
			return "", false, &InvalidOptionError{Token: token}
		}
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		slices.Sort(matches)
		return "", false, &AmbiguousCommandError{Token: token, Candidates: matches}
	}
}
