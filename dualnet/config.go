// Package dual implements the dual-head residual CNN shared by both
// shogi variants: a shared residual tower feeding a policy head (move
// priors) and a value head (position evaluation), built and trained
// with gorgonia.org/gorgonia (spec.md §4.H).
package dual

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Config configures the neural network
type Config struct {
	K            int  `json:"k"`             // number of filters
	SharedLayers int  `json:"shared_layers"` // number of shared residual blocks
	FC           int  `json:"fc"`            // fc layer width
	BatchSize    int  `json:"batch_size"`    // batch size
	Width        int  `json:"width"`         // board size width
	Height       int  `json:"height"`        // board size height
	Features     int  `json:"features"`      // feature counts
	ActionSpace  int  `json:"action_space"`  // action space
	FwdOnly      bool `json:"fwd_only"`      // is this a fwd only graph?
}

func DefaultConf(m, n, actionSpace int) Config {
	k := round((m * n) / 3)
	return Config{
		K:            k,
		SharedLayers: m,
		FC:           2 * k,
		BatchSize:    256,
		Width:        n,
		Height:       m,
		Features:     18,
		ActionSpace:  actionSpace,
	}
}

// AnimalConfig returns the network shape for Animal Shogi
// (original_source/model/config.py's ANIMAL_SHOGI_CONFIG): 3
// residual blocks, 64 channels, 14 input planes, a 180-wide policy
// head.
func AnimalConfig() Config {
	return Config{
		K:            64,
		SharedLayers: 3,
		FC:           64,
		BatchSize:    256,
		Width:        3,
		Height:       4,
		Features:     14,
		ActionSpace:  180,
	}
}

// FullConfig returns the network shape for full shogi: 5 residual
// blocks, 128 channels, 43 input planes, a 13689-wide policy head.
// original_source/model/config.py's FULL_SHOGI_CONFIG instead lists
// an action space of 2187; that figure predates the from-square/
// to-square move encoding this engine uses and is treated as stale
// (DESIGN.md Open Question decisions) — 13689 is authoritative
// everywhere, including here.
func FullConfig() Config {
	return Config{
		K:            128,
		SharedLayers: 5,
		FC:           64,
		BatchSize:    256,
		Width:        9,
		Height:       9,
		Features:     43,
		ActionSpace:  13689,
	}
}

func (conf Config) IsValid() bool {
	return conf.Validate() == nil
}

// Validate reports every field-level problem with conf at once
// (rather than IsValid's single bool), aggregated with
// github.com/hashicorp/go-multierror so a misconfigured Config fails
// with one message listing everything wrong instead of the first
// thing NewNetwork happens to check.
func (conf Config) Validate() error {
	var errs error
	if conf.K < 1 {
		errs = multierror.Append(errs, errors.New("K must be >= 1"))
	}
	if conf.ActionSpace < 3 {
		errs = multierror.Append(errs, errors.New("ActionSpace must be >= 3"))
	}
	if conf.SharedLayers < 0 {
		errs = multierror.Append(errs, errors.New("SharedLayers must be >= 0"))
	}
	if conf.FC <= 1 {
		errs = multierror.Append(errs, errors.New("FC must be > 1"))
	}
	if conf.BatchSize < 1 {
		errs = multierror.Append(errs, errors.New("BatchSize must be >= 1"))
	}
	if conf.Features <= 0 {
		errs = multierror.Append(errs, errors.New("Features must be > 0"))
	}
	return errs
}

func round(a int) int {
	n := a - 1
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++

	lt := n / 2
	if (a - lt) < (n - a) {
		return lt
	}
	return n
}
