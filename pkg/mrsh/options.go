// pkg/mrsh/options.go
package mrsh

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/creativeyann17/go-mrsh/internal/logging"
)

// Options configures an Engine
type Options struct {
	// Profile names the registered profile used for every fingerprint
	// Default: "default"
	Profile string

	// Maximum number of concurrent builds in Collection.AddAll and of
	// concurrent rows in the Compare*Context functions
	// Default: runtime.NumCPU()
	Workers int

	// Logger receives debug build traces and warnings (truncated labels,
	// skipped batch inputs)
	// Default: discard
	Logger *slog.Logger
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		Profile: DefaultProfileName,
		Workers: runtime.NumCPU(),
	}
}

// Validate checks if options are valid and fills in defaults
func (o *Options) Validate() error {
	if o.Profile == "" {
		o.Profile = DefaultProfileName
	}
	p, ok := LookupProfile(o.Profile)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, o.Profile)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if o.Workers < 0 {
		return ErrInvalidWorkers
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return nil
}
