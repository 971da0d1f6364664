// Package config holds the compile-time knobs spec.md §6 requires a host
// to provide: clock frequencies, the signal-bit budget, and a handful of
// optional behavior switches. In the original C++ these were preprocessor
// constants baked in at build time; in this port they are loaded once at
// process start from a YAML document (gopkg.in/yaml.v2, already in the
// teacher's dependency graph) with environment-variable overrides, which
// suits the simulated-RTOS backend's need to run the same binary under
// different clock-rate assumptions in tests.
//
// The teacher's own config package could not be adapted: it serialized
// through veyron.io/veyron/veyron2/vom, a dependency that is not reachable
// from this module's go.mod (the import was already dead in the source
// tree). See DESIGN.md.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config holds the external interfaces spec.md §6 lists as the only
// required host-provided knobs.
type Config struct {
	// SystemClockFrequencyHz is the fine-grained clock frequency (spec.md
	// §4.C, §6).
	SystemClockFrequencyHz uint32 `yaml:"system_clock_frequency_hz"`

	// SystickFrequencyHz is the coarse tick frequency; must divide
	// SystemClockFrequencyHz exactly (spec.md §4.C, §6).
	SystickFrequencyHz uint32 `yaml:"systick_frequency_hz"`

	// MaxSignals is the number of per-thread signal bits, 1..16 (spec.md
	// §4.H, §6).
	MaxSignals uint8 `yaml:"max_signals"`

	// AssertionsEnabled toggles internal invariant checks (spec.md §6).
	AssertionsEnabled bool `yaml:"assertions_enabled"`

	// ExceptionHookEnabled toggles the top-level panic hook a thread's
	// entry wrapper installs (spec.md §4.E, §7).
	ExceptionHookEnabled bool `yaml:"exception_hook_enabled"`

	// StackAllocationEnabled allows thread.New/future.Async to allocate a
	// stack region from the heap when the caller supplies none (spec.md
	// §4.E).
	StackAllocationEnabled bool `yaml:"stack_allocation_enabled"`

	// DefaultStackSize is used when StackAllocationEnabled and the caller
	// did not request a specific size (spec.md §4.E, §6).
	DefaultStackSize uint32 `yaml:"default_stack_size"`
}

// Default matches a common Cortex-M configuration: a 72MHz system clock,
// a 1kHz SysTick, 16 signal bits, and conservative defaults elsewhere.
func Default() Config {
	return Config{
		SystemClockFrequencyHz: 72_000_000,
		SystickFrequencyHz:     1_000,
		MaxSignals:             16,
		AssertionsEnabled:      true,
		ExceptionHookEnabled:   true,
		StackAllocationEnabled: false,
		DefaultStackSize:       4096,
	}
}

// Load parses a YAML document into a Config seeded from Default, then
// applies WEOS_* environment variable overrides, then validates it.
func Load(yamlDoc []byte) (Config, error) {
	cfg := Default()
	if len(yamlDoc) != 0 {
		if err := yaml.Unmarshal(yamlDoc, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envUint32("WEOS_SYSTEM_CLOCK_HZ"); ok {
		cfg.SystemClockFrequencyHz = v
	}
	if v, ok := envUint32("WEOS_SYSTICK_HZ"); ok {
		cfg.SystickFrequencyHz = v
	}
	if v, ok := envUint32("WEOS_MAX_SIGNALS"); ok {
		cfg.MaxSignals = uint8(v)
	}
	if v, ok := envUint32("WEOS_DEFAULT_STACK_SIZE"); ok {
		cfg.DefaultStackSize = v
	}
}

func envUint32(key string) (uint32, bool) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Validate checks the constraints spec.md §6 places on the knobs above.
func (c Config) Validate() error {
	if c.SystemClockFrequencyHz == 0 {
		return fmt.Errorf("config: system_clock_frequency_hz must be > 0")
	}
	if c.SystickFrequencyHz == 0 {
		return fmt.Errorf("config: systick_frequency_hz must be > 0")
	}
	if c.SystemClockFrequencyHz%c.SystickFrequencyHz != 0 {
		return fmt.Errorf("config: systick_frequency_hz (%d) must divide system_clock_frequency_hz (%d) exactly",
			c.SystickFrequencyHz, c.SystemClockFrequencyHz)
	}
	if c.MaxSignals < 1 || c.MaxSignals > 16 {
		return fmt.Errorf("config: max_signals must be in [1,16], got %d", c.MaxSignals)
	}
	return nil
}

// SystickReload is the value the SysTick countdown reloads to: the number
// of system-clock ticks per coarse tick, minus one (spec.md §4.C step 4).
func (c Config) SystickReload() uint32 {
	return c.SystemClockFrequencyHz/c.SystickFrequencyHz - 1
}
