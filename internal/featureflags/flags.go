package featureflags

import (
	"os"
	"strings"
)

// DemoSeed boots the service with two demo users, each the admin of one group.
const DemoSeed = "demo_seed"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on (case-insensitive)
func Enabled(name string) bool {
	return EnabledIn(os.LookupEnv, name)
}

// EnabledIn resolves a flag against an arbitrary variable lookup
func EnabledIn(lookup func(string) (string, bool), name string) bool {
	v, ok := lookup("FLAG_" + strings.ToUpper(name))
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
