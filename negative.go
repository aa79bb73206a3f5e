// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// negativeMark hides a negative number from pflag, which would otherwise
// read -3 as the shorthand flag 3.
const negativeMark = "\x00"

// protectNegatives marks every token that looks like a negative number and
// is not the value of a preceding flag. Nothing is marked when a flag uses
// a digit as its shorthand since the token is then ambiguous.
func protectNegatives(fs *pflag.FlagSet, args []string) []string {
	if hasDigitShorthand(fs) {
		return args
	}

	out := make([]string, 0, len(args))
	expectValue := false
	for i, a := range args {
		switch {
		case expectValue:
			expectValue = false
		case a == "--":
			return append(out, args[i:]...)
		case negativeNumber.MatchString(a):
			out = append(out, negativeMark+a)
			continue
		default:
			expectValue = needsValue(fs, a)
		}
		out = append(out, a)
	}
	return out
}

func restoreNegatives(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.TrimPrefix(a, negativeMark)
	}
	return out
}

func hasDigitShorthand(fs *pflag.FlagSet) bool {
	found := false
	fs.VisitAll(func(f *pflag.Flag) {
		if len(f.Shorthand) == 1 && f.Shorthand[0] >= '0' && f.Shorthand[0] <= '9' {
			found = true
		}
	})
	return found
}

// needsValue reports whether a consumes the following token as its value,
// e.g. --workers or -vw when w is not a boolean style flag.
func needsValue(fs *pflag.FlagSet, a string) bool {
	switch {
	case strings.HasPrefix(a, "--"):
		if strings.Contains(a, "=") {
			return false
		}
		f := fs.Lookup(a[2:])
		return f != nil && f.NoOptDefVal == ""
	case strings.HasPrefix(a, "-") && len(a) > 1:
		shorthands := a[1:]
		for i := 0; i < len(shorthands); i++ {
			f := fs.ShorthandLookup(shorthands[i : i+1])
			if f == nil {
				return false
			}
			if f.NoOptDefVal != "" {
				continue
			}
			// the rest of the token, if any, is the value
			return i == len(shorthands)-1
		}
		return false
	default:
		return false
	}
}

// checkRequired reports the flags marked with cobra's MarkFlagRequired
// which were not given. cobra skips this check when it does not parse
// the flags itself.
func checkRequired(fs *pflag.FlagSet) error {
	var missing []string
	fs.VisitAll(func(f *pflag.Flag) {
		req := f.Annotations[cobra.BashCompOneRequiredFlag]
		if len(req) > 0 && req[0] == "true" && !f.Changed {
			missing = append(missing, f.Name)
		}
	})
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf(`required flag(s) "%s" not set`, strings.Join(missing, `", "`))
}
