package estimator

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// LoadPolicy reads a scoring policy from a TOML file with [weights] and
// [ceilings] tables keyed by metric name. Metrics absent from the file fall
// back to the default policy, so a file can override a single weight.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("error reading policy file: %w", err)
	}

	var file Policy
	if err := toml.Unmarshal(data, &file); err != nil {
		return Policy{}, fmt.Errorf("error parsing policy file: %w", err)
	}

	p := Default()
	for name, weight := range file.Weights {
		p.Weights[name] = weight
	}
	for name, ceiling := range file.Ceilings {
		p.Ceilings[name] = ceiling
	}

	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy: %w", err)
	}

	return p, nil
}

// TOML renders the policy in the same format LoadPolicy reads.
func (p Policy) TOML() (string, error) {
	data, err := toml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("error marshaling policy: %w", err)
	}

	return string(data), nil
}
