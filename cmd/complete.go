package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes the values of flags with a known set of values.
var flagPredictors = map[string]complete.Predictor{
	"format":       predict.Set{"markdown", "terminal", "html"},
	"view":         predict.Set{"stocks", "users", "market", "trades"},
	"session-file": predict.Files("*"),
}

// Completion returns the shell completion tree of the commands registered in
// c, with the global flags of fs.
func Completion(c *subcommands.Commander, fs *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictors(fs),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		f := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(f)
		root.Sub[sc.Name()] = &complete.Command{Flags: predictors(f)}
	})
	return root
}

func predictors(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch p, ok := flagPredictors[f.Name]; {
		case ok:
			m[f.Name] = p
		case isBool(f):
			m[f.Name] = predict.Nothing
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
