package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mhopper/edgeboard/internal/core/league"
)

// ApplyOverrides replaces registered weight sets from a YAML file, keyed
// league -> version -> weights. Entries must be complete sets; shrinkage
// pseudo-counts are not overridable from the file.
//
//	nba:
//	  v1:
//	    win: 0.42
//	    margin: 0.28
//	    recent_win: 0.18
//	    recent_margin: 0.12
//	    margin_divisor: 12
//	    home_advantage: 0.015
func (r *Registry) ApplyOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model weights: %w", err)
	}

	var file map[string]map[string]Weights
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse model weights: %w", err)
	}

	for lgKey, versions := range file {
		lg, err := league.Parse(lgKey)
		if err != nil {
			return fmt.Errorf("model weights: %w", err)
		}
		for vKey, w := range versions {
			v, ok := ParseVersion(vKey)
			if !ok {
				return fmt.Errorf("model weights: unknown version %q for %s", vKey, lg)
			}
			if err := validateWeights(w); err != nil {
				return fmt.Errorf("model weights %s/%s: %w", lg, v, err)
			}
			m, ok := r.Get(lg, v)
			if !ok {
				return fmt.Errorf("model weights: no registered model %s/%s", lg, v)
			}
			m.W = w
		}
	}
	return nil
}

func validateWeights(w Weights) error {
	if w.MarginDivisor <= 0 {
		return fmt.Errorf("margin_divisor must be positive")
	}
	sum := w.Win + w.Margin + w.RecentWin + w.RecentMargin
	if sum <= 0 || sum > 1.0+1e-9 {
		return fmt.Errorf("blend weights must be positive and sum to at most 1, got %.3f", sum)
	}
	return nil
}
