package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the parsed command-line configuration.
type Config struct {
	// PIDs are the processes whose threads to enumerate. Empty means scan
	// the whole process table (a filter is then required).
	PIDs []int
	// Filter is an expression selecting processes when scanning the whole
	// table; it also narrows an explicit PID list.
	Filter string
	// Once disables the retry-until-stable protocol: exactly two raw
	// enumeration passes are taken per process.
	Once bool
}

// ParseArgs parses command-line arguments and returns a Config.
// Expected format: taskscan [--filter <expr>] [--once] [--] <pid>...
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	programName := args[0]
	cfg := &Config{}

	i := 1
	for ; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "--filter", "-f":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			cfg.Filter = args[i]
		case "--once":
			cfg.Once = true
		default:
			return nil, fmt.Errorf("unknown flag %q\n%s", arg, usage(programName))
		}
	}

	for ; i < len(args); i++ {
		pid, err := strconv.Atoi(args[i])
		if err != nil || pid <= 0 {
			return nil, fmt.Errorf("invalid pid %q", args[i])
		}
		cfg.PIDs = append(cfg.PIDs, pid)
	}

	if len(cfg.PIDs) == 0 && cfg.Filter == "" {
		return nil, fmt.Errorf("%s", usage(programName))
	}

	return cfg, nil
}

func usage(programName string) string {
	return fmt.Sprintf("Usage: %s [--filter <expr>] [--once] [--] <pid>...\nExample: %s --filter 'comm == \"nginx\"'",
		programName, programName)
}
