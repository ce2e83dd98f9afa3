package distfield

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/spatialaccel/bvh"
	"go.viam.com/spatialaccel/utils"
)

// Config describes how a distance field is sampled.
type Config struct {
	// MaxResolution is the number of voxels along the longest axis of the sampled region.
	MaxResolution int `json:"max_resolution"`
	// Signed makes voxels inside a closed mesh negative.
	Signed bool `json:"signed"`
	// Serial disables the parallel slice workers.
	Serial bool `json:"serial"`
	// Margin grows the bounds of the geometry on every side before sampling.
	Margin float64 `json:"margin"`
	// LeafSize and MaxDepth tune the hierarchy built over every mesh. Zero values keep the defaults.
	LeafSize int `json:"leaf_size,omitempty"`
	MaxDepth int `json:"max_depth,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var err error
	switch {
	case cfg.MaxResolution == 0:
		err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "max_resolution"))
	case cfg.MaxResolution < 0:
		err = multierr.Append(err, utils.NewConfigValidationOutOfRangeError(path, "max_resolution", cfg.MaxResolution, 1))
	}
	if cfg.Margin < 0 {
		err = multierr.Append(err, utils.NewConfigValidationOutOfRangeError(path, "margin", cfg.Margin, 0))
	}
	if cfg.LeafSize < 0 {
		err = multierr.Append(err, utils.NewConfigValidationOutOfRangeError(path, "leaf_size", cfg.LeafSize, 1))
	}
	if cfg.MaxDepth < 0 {
		err = multierr.Append(err, utils.NewConfigValidationOutOfRangeError(path, "max_depth", cfg.MaxDepth, 1))
	}
	return err
}

// TreeBuilder returns the builder used for mesh hierarchies, applying the defaults for unset fields.
func (cfg *Config) TreeBuilder() (*bvh.Builder[float64, [3]float64], error) {
	builder := bvh.DefaultBuilder[float64, [3]float64]()
	if cfg.LeafSize > 0 {
		builder.LeafSize = cfg.LeafSize
	}
	if cfg.MaxDepth > 0 {
		builder.MaxDepth = cfg.MaxDepth
	}
	if err := builder.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tree builder")
	}
	return builder, nil
}
