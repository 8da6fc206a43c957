package waged

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/arloliu/waged/constraint"
	"gopkg.in/yaml.v3"
)

// Config is the configuration for the Scorer.
//
// All duration fields accept standard Go duration strings like "5s", "1m".
type Config struct {
	// Constraints maps a built-in constraint name to its weight.
	//
	// A weight of 0 disables the constraint. The final candidate score is the
	// weighted sum of normalized scores divided by the total weight, so only the
	// ratio between weights matters.
	//
	// Default: {"PartitionMovement": 1, "InstancePartitionsCount": 1}
	Constraints map[string]float64 `yaml:"constraints"`

	// Workers is the number of goroutines RankAll uses to score replicas.
	// Default: 8
	Workers int `yaml:"workers"`

	// TieBreakSeed seeds the hash that orders equally scored nodes.
	// Changing the seed reshuffles ties without changing scores.
	TieBreakSeed uint64 `yaml:"tieBreakSeed"`

	// KVBucket is the NATS JetStream KV bucket holding assignment snapshots.
	// Default: "waged-assignment"
	KVBucket string `yaml:"kvBucket"`

	// OperationTimeout bounds snapshot loading from KV.
	// Default: 10 seconds
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Constraints: map[string]float64{
			constraint.PartitionMovementName:       1,
			constraint.InstancePartitionsCountName: 1,
		},
		Workers:          8,
		TieBreakSeed:     0,
		KVBucket:         "waged-assignment",
		OperationTimeout: 10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// An empty Constraints map receives the default weights; a non-empty map is
// kept as is, so disabling a constraint requires an explicit 0 weight.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if len(cfg.Constraints) == 0 {
		cfg.Constraints = defaults.Constraints
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.KVBucket == "" {
		cfg.KVBucket = defaults.KVBucket
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	// Note: TieBreakSeed of 0 is valid (unseeded hash), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Validation Rules:
//   - Every constraint name is a built-in constraint
//   - Every weight is finite and >= 0
//   - At least one weight is > 0
//   - Workers > 0
//   - OperationTimeout >= 0
//
// Returns:
//   - error: ErrInvalidConfig or ErrNoConstraints wrapped with the offending value, nil if valid
func (cfg *Config) Validate() error {
	known := constraint.Names()
	enabled := 0

	// sorted for a stable first error
	for _, name := range slices.Sorted(maps.Keys(cfg.Constraints)) {
		weight := cfg.Constraints[name]
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: unknown constraint %q (known: %v)", ErrInvalidConfig, name, known)
		}
		if math.IsNaN(weight) || weight < 0 || weight > maxWeight {
			return fmt.Errorf("%w: constraint %s weight must be in [0, %g], got %v",
				ErrInvalidConfig, name, maxWeight, weight)
		}
		if weight > 0 {
			enabled++
		}
	}

	if cfg.Workers <= 0 {
		return fmt.Errorf("%w: Workers must be > 0, got %d", ErrInvalidConfig, cfg.Workers)
	}

	if cfg.OperationTimeout < 0 {
		return fmt.Errorf("%w: OperationTimeout must be >= 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}

	if enabled == 0 {
		return ErrNoConstraints
	}

	return nil
}

// maxWeight keeps the weighted sum far away from float64 overflow.
const maxWeight = 1e6

// LoadConfig parses a YAML document, applies defaults and validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - Config: Validated configuration
//   - error: YAML decoding error or validation error
//
// Example:
//
//	data, _ := os.ReadFile("waged.yaml")
//	cfg, err := waged.LoadConfig(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scorer, err := waged.NewScorer(&cfg)
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration for tests.
//
// It scores with PartitionMovement only and a single worker so results are
// easy to reason about. Use DefaultConfig() for production deployments.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := waged.TestConfig()
//	scorer, err := waged.NewScorer(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Constraints = map[string]float64{constraint.PartitionMovementName: 1}
	cfg.Workers = 1
	cfg.OperationTimeout = time.Second

	return cfg
}
