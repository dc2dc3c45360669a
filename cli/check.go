package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	rawcstr "github.com/novafacing/raw-cstr"
)

type CheckCmd struct {
	File string `help:"Input file of whitespace-separated values." arg:"" type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	problems, total, err := checkFile(cmd.File)
	if err != nil {
		return err
	}

	s := newStyler(globals, ctx.Stdout)

	if len(problems) == 0 {
		s.printSuccess(ctx.Stdout, fmt.Sprintf("all %d values convert cleanly", total))
		return nil
	}

	for _, p := range problems {
		s.printError(ctx.Stdout, fmt.Sprintf("line %d: %q: %v", p.Line, p.Value, p.Err))
	}

	return fmt.Errorf("%d of %d values cannot be converted", len(problems), total)
}

// problem is one value that failed conversion, with its source line.
type problem struct {
	Line  int
	Value string
	Err   error
}

func checkFile(filename string) ([]problem, int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, err
	}

	cache := rawcstr.NewCache()
	defer cache.Close()

	var problems []problem
	total := 0

	for i, line := range strings.Split(string(data), "\n") {
		for _, value := range strings.Fields(line) {
			total++
			if _, err := rawcstr.String(value).RawCStr(cache); err != nil {
				problems = append(problems, problem{Line: i + 1, Value: value, Err: err})
			}
		}
	}

	return problems, total, nil
}
