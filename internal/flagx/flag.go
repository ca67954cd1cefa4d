// Package flagx holds small helpers that let several configuration layers
// parse their own subset of os.Args without tripping over each other.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only the arguments that belong to allowedFlags, keeping
// their values. Both "-f value" and "-f=value" forms are recognised.
//
// Flags listed in boolFlags never consume the following argument, so
// "-o positional" keeps "positional" out of the result. Pass "-o=false" to
// switch a boolean off.
func FilterArgs(args []string, allowedFlags []string, boolFlags ...string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if _, isBool := bools[arg]; isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlags extracts the JSON config path (-c/-config) and the dotenv
// path (-env) from os.Args. Missing flags yield empty strings.
func ConfigFileFlags() (jsonPath string, envPath string) {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.StringVar(&jsonPath, "config", "", "Path to config file")
	fs.StringVar(&jsonPath, "c", "", "Path to config file (short)")
	fs.StringVar(&envPath, "env", "", "Path to .env file")
	_ = fs.Parse(args)

	return jsonPath, envPath
}
