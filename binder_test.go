// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "test",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd
}

func parse(t *testing.T, setup func(*Binder) error, args ...string) (Namespace, error) {
	t.Helper()

	cmd := newTestCommand()
	b := Bind(cmd)
	require.NoError(t, setup(b))

	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return b.Namespace(), err
}

func addArg[T Number](minimum, maximum T, cfg ArgConfig[T]) func(*Binder) error {
	return func(b *Binder) error {
		a, err := New(minimum, maximum)
		if err != nil {
			return err
		}
		_, err = Add(b, a, cfg)
		return err
	}
}

func hexInt(s string) (int, error) {
	i, err := strconv.ParseInt(s, 0, 64)
	return int(i), err
}

func TestAdd_Positional(t *testing.T) {
	t.Run("will store the parsed value", func(t *testing.T) {
		t.Run("if a single int argument is in range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg"}), "1")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 1, ns["testarg"]) {
				return
			}
		})

		t.Run("if a single float argument is in range and the token is integral", func(t *testing.T) {
			ns, err := parse(t, addArg(0.0, 1.0, ArgConfig[float64]{Dest: "testarg"}), "1")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 1.0, ns["testarg"]) {
				return
			}
		})

		t.Run("if the value equals either bound", func(t *testing.T) {
			for _, tok := range []string{"-5", "5"} {
				ns, err := parse(t, addArg(-5, 5, ArgConfig[int]{Dest: "testarg"}), tok)
				if !assert.Nil(t, err) {
					return
				}
				want, _ := strconv.Atoi(tok)
				if !assert.Equal(t, want, ns["testarg"]) {
					return
				}
			}
		})

		t.Run("if a negative value is in range", func(t *testing.T) {
			ns, err := parse(t, addArg(-5, 5, ArgConfig[int]{Dest: "testarg"}), "-3")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, -3, ns["testarg"]) {
				return
			}
		})

		t.Run("if negative values follow a flag", func(t *testing.T) {
			setup := func(b *Binder) error {
				err := addArg(-1.0, 1.0, ArgConfig[float64]{Names: []string{"--offset", "-o"}})(b)
				if err != nil {
					return err
				}
				return addArg(-1.0, 1.0, ArgConfig[float64]{Dest: "samples", Arity: OneOrMore})(b)
			}

			ns, err := parse(t, setup, "-o", "-0.5", "-1", "-.25", "0.75")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, -0.5, ns["offset"]) {
				return
			}
			if !assert.Equal(t, []float64{-1, -0.25, 0.75}, ns["samples"]) {
				return
			}
		})

		t.Run("if all values of a list argument are in range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: ZeroOrMore}), "0", "1")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{0, 1}, ns["testarg"]) {
				return
			}
		})

		t.Run("if an optional argument is absent", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: Optional}))
			if !assert.Nil(t, err) {
				return
			}
			v, ok := ns["testarg"]
			if !assert.True(t, ok) {
				return
			}
			if !assert.Nil(t, v) {
				return
			}
		})

		t.Run("if an optional argument is absent and has a default", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: Optional, Default: 7}))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 7, ns["testarg"]) {
				return
			}
		})

		t.Run("if an optional argument is present and in range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: Optional}), "0")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 0, ns["testarg"]) {
				return
			}
		})

		t.Run("if an explicit converter produces an in range value", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 16, ArgConfig[int]{Dest: "testarg", Type: hexInt}), "0x10")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 16, ns["testarg"]) {
				return
			}
		})

		t.Run("if an explicit converter produces in range values for a list", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 16, ArgConfig[int]{Dest: "testarg", Type: hexInt, Arity: ZeroOrMore}), "0x0", "0x1", "9")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{0, 1, 9}, ns["testarg"]) {
				return
			}
		})

		t.Run("if several positionals share the arguments", func(t *testing.T) {
			setup := func(b *Binder) error {
				a, err := New(0, 10)
				if err != nil {
					return err
				}
				for _, cfg := range []ArgConfig[int]{
					{Dest: "first"},
					{Dest: "middle", Arity: ZeroOrMore},
					{Dest: "last", Arity: Exactly(2)},
				} {
					_, err = Add(b, a, cfg)
					if err != nil {
						return err
					}
				}
				return nil
			}

			ns, err := parse(t, setup, "1", "2", "3", "4", "5")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 1, ns["first"]) {
				return
			}
			if !assert.Equal(t, []int{2, 3}, ns["middle"]) {
				return
			}
			if !assert.Equal(t, []int{4, 5}, ns["last"]) {
				return
			}
		})
	})

	t.Run("will return a ValidationError", func(t *testing.T) {
		t.Run("if a single argument is below the range", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg"}), "-1")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Equal(t, "-1", verr.Value) {
				return
			}
		})

		t.Run("if a single argument is above the range", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg"}), "2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Contains(t, verr.Error(), "2") {
				return
			}
			if !assert.Contains(t, verr.Error(), "0..=1") {
				return
			}
		})

		t.Run("if some values of a list argument are out of range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: ZeroOrMore}), "0", "1", "2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Nil(t, ns["testarg"]) {
				return
			}
		})

		t.Run("if all values of a list argument are out of range", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: ZeroOrMore}), "2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
		})

		t.Run("if an optional argument is present and out of range", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: Optional}), "2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
		})

		t.Run("if an explicit converter produces an out of range value", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Type: hexInt}), "0x2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
		})

		t.Run("if an explicit converter produces an out of range value in a list", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Type: hexInt, Arity: ZeroOrMore}), "0", "1", "3")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
		})
	})

	t.Run("will return a ConversionError", func(t *testing.T) {
		t.Run("if an int argument receives a float token", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg"}), "0.5")

			var cerr ConversionError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, "0.5", cerr.Token) {
				return
			}
		})
	})

	t.Run("will return an ArgCountError", func(t *testing.T) {
		t.Run("if a required positional is missing", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg"}))

			var aerr ArgCountError
			if !assert.ErrorAs(t, err, &aerr) {
				return
			}
			if !assert.Equal(t, 0, aerr.Got) {
				return
			}
		})

		t.Run("if too many arguments are given", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: Optional}), "0", "1")

			var aerr ArgCountError
			if !assert.ErrorAs(t, err, &aerr) {
				return
			}
			if !assert.Equal(t, 1, aerr.Max) {
				return
			}
		})

		t.Run("if a one or more positional receives nothing", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Dest: "testarg", Arity: OneOrMore}))

			var aerr ArgCountError
			if !assert.ErrorAs(t, err, &aerr) {
				return
			}
		})
	})
}

func TestAdd_Flag(t *testing.T) {
	t.Run("will store the default", func(t *testing.T) {
		t.Run("if the flag is not given", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Names: []string{"--testarg"}, Default: 0}))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 0, ns["testarg"]) {
				return
			}
		})

		t.Run("without validating it", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Names: []string{"--testarg"}, Default: 5}))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 5, ns["testarg"]) {
				return
			}
		})
	})

	t.Run("will store the parsed value", func(t *testing.T) {
		t.Run("if the default is overridden with an in range value", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 1, ArgConfig[int]{Names: []string{"--testarg"}, Default: 0}), "--testarg", "1")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 1, ns["testarg"]) {
				return
			}
		})

		t.Run("under a destination derived from the long name", func(t *testing.T) {
			ns, err := parse(t, addArg(1, 64, ArgConfig[int]{Names: []string{"-w", "--max-workers"}}), "-w", "8")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 8, ns["max_workers"]) {
				return
			}
		})

		t.Run("if list occurrences are all in range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 3, ArgConfig[int]{Names: []string{"--levels"}, Arity: ZeroOrMore, Default: []int{3}}), "--levels", "0,1", "--levels", "2")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{0, 1, 2}, ns["levels"]) {
				return
			}
		})

		t.Run("if a fixed size list flag is repeated", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 9, ArgConfig[int]{Names: []string{"--point"}, Arity: Exactly(2)}), "--point", "1,2", "--point", "3,4")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{3, 4}, ns["point"]) {
				return
			}
		})

		t.Run("if an optional flag is given without a value", func(t *testing.T) {
			half := 0.5
			ns, err := parse(t, addArg(0.0, 1.0, ArgConfig[float64]{Names: []string{"--ratio"}, Arity: Optional, Const: &half}), "--ratio")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 0.5, ns["ratio"]) {
				return
			}
		})

		t.Run("if an optional flag is given with a value", func(t *testing.T) {
			half := 0.5
			ns, err := parse(t, addArg(0.0, 1.0, ArgConfig[float64]{Names: []string{"--ratio"}, Arity: Optional, Const: &half}), "--ratio=0.25")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 0.25, ns["ratio"]) {
				return
			}
		})
	})

	t.Run("will return a ValidationError", func(t *testing.T) {
		t.Run("if the default is overridden with an out of range value", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Names: []string{"--testarg"}, Default: 0}), "--testarg", "2")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Equal(t, "--testarg", verr.Arg) {
				return
			}

			var ferr FlagError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Contains(t, ferr.Error(), `invalid argument "2"`) {
				return
			}
		})

		t.Run("if one value of a list occurrence is out of range", func(t *testing.T) {
			ns, err := parse(t, addArg(0, 3, ArgConfig[int]{Names: []string{"--levels"}, Arity: ZeroOrMore}), "--levels", "0,1", "--levels", "2,4")

			var verr ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Equal(t, []int{0, 1}, ns["levels"]) {
				return
			}
		})
	})

	t.Run("will return an ArgCountError", func(t *testing.T) {
		t.Run("if a fixed size list flag receives the wrong number of values", func(t *testing.T) {
			_, err := parse(t, addArg(0, 9, ArgConfig[int]{Names: []string{"--point"}, Arity: Exactly(2)}), "--point", "1,2,3")

			var aerr ArgCountError
			if !assert.ErrorAs(t, err, &aerr) {
				return
			}
			if !assert.Equal(t, 3, aerr.Got) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a required flag is missing", func(t *testing.T) {
			_, err := parse(t, addArg(0, 1, ArgConfig[int]{Names: []string{"--testarg"}, Required: true}))
			if !assert.Error(t, err) {
				return
			}
			if !assert.Contains(t, err.Error(), "testarg") {
				return
			}
		})
	})
}

func TestBinder_Execute(t *testing.T) {
	t.Run("will start from the defaults", func(t *testing.T) {
		t.Run("if the command is executed again", func(t *testing.T) {
			cmd := newTestCommand()
			b := Bind(cmd)
			err := addArg(0, 9, ArgConfig[int]{Names: []string{"--levels"}, Arity: ZeroOrMore, Default: []int{1}})(b)
			if !assert.Nil(t, err) {
				return
			}
			err = addArg(0, 9, ArgConfig[int]{Dest: "depth", Arity: Optional, Default: 3})(b)
			if !assert.Nil(t, err) {
				return
			}

			cmd.SetArgs([]string{"--levels", "4,5", "7"})
			err = cmd.Execute()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{4, 5}, b.Namespace()["levels"]) {
				return
			}
			if !assert.Equal(t, 7, b.Namespace()["depth"]) {
				return
			}

			cmd.SetArgs([]string{"--levels", "6"})
			err = cmd.Execute()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{6}, b.Namespace()["levels"]) {
				return
			}
			if !assert.Equal(t, 3, b.Namespace()["depth"]) {
				return
			}
		})
	})

	t.Run("will not wrap an unrelated flag error", func(t *testing.T) {
		t.Run("if an earlier flag value was rejected", func(t *testing.T) {
			cmd := newTestCommand()
			b := Bind(cmd)
			err := addArg(0, 1, ArgConfig[int]{Names: []string{"--level"}})(b)
			if !assert.Nil(t, err) {
				return
			}

			err = cmd.Flags().Set("level", "5")
			if !assert.Error(t, err) {
				return
			}

			cmd.SetArgs([]string{"--bogus"})
			err = cmd.Execute()
			if !assert.Error(t, err) {
				return
			}
			if !assert.Contains(t, err.Error(), "unknown flag") {
				return
			}
			var verr ValidationError
			if !assert.False(t, errors.As(err, &verr)) {
				return
			}
		})
	})

	t.Run("will show help", func(t *testing.T) {
		t.Run("if --help is given without the required positionals", func(t *testing.T) {
			cmd := newTestCommand()
			var out bytes.Buffer
			cmd.SetOut(&out)
			b := Bind(cmd)
			err := addArg(0, 1, ArgConfig[int]{Dest: "testarg"})(b)
			if !assert.Nil(t, err) {
				return
			}

			cmd.SetArgs([]string{"--help"})
			err = cmd.Execute()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, out.String(), "(must be in range 0..=1)") {
				return
			}

			out.Reset()
			cmd.SetArgs([]string{"1"})
			err = cmd.Execute()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, out.String()) {
				return
			}
			if !assert.Equal(t, 1, b.Namespace()["testarg"]) {
				return
			}
		})
	})
}

func TestProtectNegatives(t *testing.T) {
	newFlagSet := func(shorthand string) *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.IntP("offset", shorthand, 0, "")
		fs.BoolP("verbose", "v", false, "")
		return fs
	}

	testCases := []struct {
		Name      string
		Shorthand string
		Args      []string
		Want      []string
	}{
		{
			Name: "marks negative positionals",
			Args: []string{"-3", "-0.5", "-.5", "4"},
			Want: []string{"\x00-3", "\x00-0.5", "\x00-.5", "4"},
		},
		{
			Name: "keeps flag values",
			Args: []string{"--offset", "-3", "-o", "-4", "-vo", "-5", "-1"},
			Want: []string{"--offset", "-3", "-o", "-4", "-vo", "-5", "\x00-1"},
		},
		{
			Name: "marks tokens after a flag with an inline value",
			Args: []string{"--offset=1", "-2", "-o3", "-4", "-v", "-5"},
			Want: []string{"--offset=1", "\x00-2", "-o3", "\x00-4", "-v", "\x00-5"},
		},
		{
			Name: "leaves everything after the terminator",
			Args: []string{"--", "-3"},
			Want: []string{"--", "-3"},
		},
		{
			Name: "leaves non numbers",
			Args: []string{"-x", "-1e3", "--1"},
			Want: []string{"-x", "-1e3", "--1"},
		},
		{
			Name:      "leaves everything if a shorthand is a digit",
			Shorthand: "3",
			Args:      []string{"-3"},
			Want:      []string{"-3"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			shorthand := testCase.Shorthand
			if shorthand == "" {
				shorthand = "o"
			}

			got := protectNegatives(newFlagSet(shorthand), testCase.Args)
			if !assert.Equal(t, testCase.Want, got) {
				return
			}
			if !assert.Equal(t, len(testCase.Args), len(restoreNegatives(got))) {
				return
			}
		})
	}
}

func TestAdd_Config(t *testing.T) {
	t.Run("will return an ArgConfigError", func(t *testing.T) {
		testCases := []struct {
			Name string
			Cfg  ArgConfig[int]
		}{
			{
				Name: "if an optional flag has no const",
				Cfg:  ArgConfig[int]{Names: []string{"--ratio"}, Arity: Optional},
			},
			{
				Name: "if a flag name is malformed",
				Cfg:  ArgConfig[int]{Names: []string{"-ratio"}},
			},
			{
				Name: "if a flag has two long names",
				Cfg:  ArgConfig[int]{Names: []string{"--ratio", "--rate"}},
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				b := Bind(newTestCommand())
				a, err := New(0, 1)
				if !assert.Nil(t, err) {
					return
				}

				_, err = Add(b, a, testCase.Cfg)

				var cerr ArgConfigError
				if !assert.ErrorAs(t, err, &cerr) {
					return
				}
			})
		}
	})
}

func TestBinder_Usage(t *testing.T) {
	t.Run("will include the range annotation", func(t *testing.T) {
		t.Run("for flags and positionals", func(t *testing.T) {
			cmd := newTestCommand()
			b := Bind(cmd)
			err := addArg(1, 64, ArgConfig[int]{Names: []string{"--workers"}, Help: "number of workers"})(b)
			if !assert.Nil(t, err) {
				return
			}
			err = addArg(0.0, 1.0, ArgConfig[float64]{Dest: "ratio", Metavar: "RATIO"})(b)
			if !assert.Nil(t, err) {
				return
			}

			usage := cmd.UsageString()
			if !assert.Contains(t, usage, "number of workers (must be in range 1..=64)") {
				return
			}
			if !assert.Contains(t, usage, "Arguments:") {
				return
			}
			if !assert.True(t, strings.Contains(usage, "RATIO   (must be in range 0.0..=1.0)")) {
				return
			}
		})
	})
}
