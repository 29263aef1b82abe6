package sampler

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("invalid sample config")

var validate = validator.New()

// Config holds the sampling thresholds. Lengths are in island units.
type Config struct {
	// MaxSampleDistance is the largest gap between neighbouring points on a
	// center line or circle.
	MaxSampleDistance float64 `toml:"max_sample_distance" validate:"gt=0"`
	// SideDistance is the distance of a branch end point from the branch tip.
	SideDistance float64 `toml:"side_distance" validate:"gte=0,ltefield=MaxSampleDistance"`
	// Branches not longer than this get no points of their own.
	MinSideBranchLength float64 `toml:"min_side_branch_length" validate:"gte=0"`

	MinimalDistanceFromOutline float64 `toml:"minimal_distance_from_outline" validate:"gte=0"`
	// Parts wider than this are sampled as a field instead of a center line.
	MaxWidthForCenterSupportLine float64 `toml:"max_width_for_center_support_line" validate:"gt=0"`
	// A field ends where the width drops under this.
	MinWidthForOutlineSupport float64 `toml:"min_width_for_outline_support" validate:"gt=0,ltefield=MaxWidthForCenterSupportLine"`

	MaxLengthForOneSupportPoint  float64 `toml:"max_length_for_one_support_point" validate:"gte=0,ltefield=MaxLengthForTwoSupportPoints"`
	MaxLengthForTwoSupportPoints float64 `toml:"max_length_for_two_support_points" validate:"gte=0"`

	OutlineSampleDistance float64 `toml:"outline_sample_distance" validate:"gt=0"`
	InnerSampleDistance   float64 `toml:"inner_sample_distance" validate:"gt=0"`

	CountIteration int     `toml:"count_iteration" validate:"gte=0"`
	MinimalMove    float64 `toml:"minimal_move" validate:"gte=0"`

	// Seed makes inner field sampling reproducible.
	Seed int64 `toml:"seed"`
}

func ConfigDefault() Config {
	return Config{
		MaxSampleDistance:            5,
		SideDistance:                 2,
		MinSideBranchLength:          2,
		MinimalDistanceFromOutline:   0.5,
		MaxWidthForCenterSupportLine: 4,
		MinWidthForOutlineSupport:    3.5,
		MaxLengthForOneSupportPoint:  2.5,
		MaxLengthForTwoSupportPoints: 10,
		OutlineSampleDistance:        4,
		InnerSampleDistance:          5,
		CountIteration:               100,
		MinimalMove:                  0.01,
		Seed:                         1,
	}
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a TOML file over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := ConfigDefault()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
