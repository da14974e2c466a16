// Package config parses the bootstrap collaborator's two recognized
// options (spec.md §6): port and cache_capacity. This, and the rest of
// process bootstrap, is explicitly out of scope for the core (spec.md
// §1), but the core still needs a concrete, if minimal, caller to be a
// runnable binary.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config is the bootstrap collaborator's resolved configuration,
// spec.md §6's CLI table.
type Config struct {
	Port          int
	CacheCapacity int
}

const defaultPort = 11211

/*
Load parses args (typically os.Args[1:]) into a Config, grounded on
calvinalkan-agent-task's config.go convention of a single
validate-and-return-error function rather than panicking on bad input —
appropriate here because, unlike a misconfigured in-process Cache
(New panics — see cache.go), a bad CLI invocation should produce the
non-zero "fatal... initialization failure" exit code spec.md §6
describes, not a panic with a stack trace.
*/
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("tempuscached", pflag.ContinueOnError)
	port := fs.Int("port", defaultPort, "TCP listen port")
	capacity := fs.Int("cache-capacity", 0, "max entries in steady state (required, > 0)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *capacity <= 0 {
		return Config{}, fmt.Errorf("config: --cache-capacity is required and must be > 0")
	}

	return Config{Port: *port, CacheCapacity: *capacity}, nil
}
