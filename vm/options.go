package vm

import "github.com/caarlos0/env/v6"

// Options configures one VM instance. It is the concrete mechanism behind
// the core's instruction/stack budget: the compiler has no notion of a
// resource limit, so the VM is where one is enforced.
type Options struct {
	// Debug turns on a zerolog trace line per executed instruction.
	Debug bool `env:"BYTESCRIPT_DEBUG" envDefault:"false"`
	// MaxInstructions bounds the number of instructions a single Run may
	// execute before it fails with a RuntimeError; zero means unbounded.
	MaxInstructions int `env:"BYTESCRIPT_MAX_INSTRUCTIONS" envDefault:"0"`
	// MaxStackDepth bounds the operand stack's depth; zero means
	// unbounded.
	MaxStackDepth int `env:"BYTESCRIPT_MAX_STACK_DEPTH" envDefault:"0"`
}

// LoadOptions reads Options from the process environment, falling back to
// the envDefault tags for anything unset.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
