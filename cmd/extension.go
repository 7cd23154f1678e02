package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/stocksboard/logger"
)

// EnvVerbose tells an extension that -v was given.
const EnvVerbose = "SB_VERBOSE"

// RunExtension attempts to find and execute an external sb-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension receives the resolved configuration as SB_* environment
// variables, the global flags included.
func RunExtension(ctx context.Context, subcommand string, args []string) (bool, int) {
	name := "sb-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log := logger.Get()
		log.Debug().Err(err).Str("extension", name).Msg("extension not found in PATH")
		return false, 0
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return true, 1
	}

	cmd := exec.CommandContext(ctx, lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(), cfg.Environ()...)
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
