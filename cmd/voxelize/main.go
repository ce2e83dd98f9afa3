// Package main samples the distance field of a PLY mesh and prints statistics about it.
package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/spatialaccel/distfield"
	"go.viam.com/spatialaccel/logging"
	"go.viam.com/spatialaccel/spatialmath"
	"go.viam.com/spatialaccel/utils"
)

const (
	// Flags.
	flagMesh       = "mesh"
	flagConfig     = "config"
	flagResolution = "resolution"
	flagSigned     = "signed"
	flagSerial     = "serial"
	flagMargin     = "margin"
	flagLogLevel   = "log-level"
	flagOut        = "out"

	defaultResolution = 64
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var logger logging.Logger
	return &cli.App{
		Name:  "voxelize",
		Usage: "sample the distance field of a triangle mesh",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     flagMesh,
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "PLY mesh to sample",
			},
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load sampling configuration from JSON `FILE`; other flags override it",
			},
			&cli.IntFlag{
				Name:    flagResolution,
				Aliases: []string{"r"},
				Value:   defaultResolution,
				Usage:   "voxels along the longest axis",
			},
			&cli.BoolFlag{
				Name:  flagSigned,
				Usage: "negate distances inside the mesh",
			},
			&cli.BoolFlag{
				Name:  flagSerial,
				Usage: "sample on a single goroutine",
			},
			&cli.Float64Flag{
				Name:  flagMargin,
				Usage: "grow the sampled region past the mesh on every side",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: logging.INFO.String(),
				Usage: "one of debug, info, warn or error",
			},
			&cli.PathFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "write the packed float32 grid to `FILE`",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.LevelFromString(c.String(flagLogLevel))
			if err != nil {
				return err
			}
			logger = logging.NewLogger("voxelize")
			logger.SetLevel(level)
			logging.ReplaceGlobal(logger)
			return nil
		},
		Action: func(c *cli.Context) error {
			return voxelizeAction(c, logger)
		},
	}
}

func voxelizeAction(c *cli.Context, logger logging.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	mesh, err := spatialmath.LoadPLY(c.Path(flagMesh))
	if err != nil {
		return err
	}
	logger.Infow("loaded mesh", "path", c.Path(flagMesh), "triangles", mesh.Len())

	builder, err := distfield.NewBuilderFromConfig[float32](cfg, logger.Sublogger("distfield"))
	if err != nil {
		return err
	}
	geom := distfield.NewGeometry()
	geom.AddMesh(mesh, nil)
	if err := builder.Build(c.Context, geom); err != nil {
		return errors.Wrap(err, "sampling distance field")
	}

	summary, err := builder.Summary()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "grid %dx%dx%d, voxel size %g", builder.DimensionX(), builder.DimensionY(),
		builder.DimensionZ(), builder.VoxelSize())
	printf(c.App.Writer, "corners %v %v", builder.CornerMin(), builder.CornerMax())
	printf(c.App.Writer, "min %g max %g mean %g median %g stddev %g, %d of %d voxels inside",
		summary.Min, summary.Max, summary.Mean, summary.Median, summary.StdDev, summary.Negative, summary.Count)

	if out := c.Path(flagOut); out != "" {
		if err := writeGrid(out, builder); err != nil {
			return err
		}
		logger.Infow("wrote grid", "path", out)
	}
	return nil
}

// loadConfig reads the optional config file and applies any flags set on the command line over it.
func loadConfig(c *cli.Context) (*distfield.Config, error) {
	cfg := &distfield.Config{MaxResolution: defaultResolution}
	if path := c.Path(flagConfig); path != "" {
		//nolint:gosec
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %q", path)
		}
	}
	if c.IsSet(flagResolution) {
		cfg.MaxResolution = c.Int(flagResolution)
	}
	if c.IsSet(flagSigned) {
		cfg.Signed = c.Bool(flagSigned)
	}
	if c.IsSet(flagSerial) {
		cfg.Serial = c.Bool(flagSerial)
	}
	if c.IsSet(flagMargin) {
		cfg.Margin = c.Float64(flagMargin)
	}
	if err := cfg.Validate(flagConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

// gridHeader precedes the voxel values in files written by writeGrid. All fields are little endian.
type gridHeader struct {
	DimX, DimY, DimZ uint32
	VoxelSize        float64
	MinX, MinY, MinZ float64
}

func writeGrid(path string, builder *distfield.Builder[float32]) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating grid file")
	}
	guard := utils.NewGuard(func() { utils.RemoveFileNoError(path) })
	defer guard.OnFail()
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	if err := encodeGrid(f, builder); err != nil {
		return err
	}
	guard.Success()
	return nil
}

func encodeGrid(w io.Writer, builder *distfield.Builder[float32]) error {
	corner := builder.CornerMin()
	header := gridHeader{
		DimX:      uint32(builder.DimensionX()),
		DimY:      uint32(builder.DimensionY()),
		DimZ:      uint32(builder.DimensionZ()),
		VoxelSize: builder.VoxelSize(),
		MinX:      corner.X,
		MinY:      corner.Y,
		MinZ:      corner.Z,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "writing grid header")
	}
	if err := binary.Write(w, binary.LittleEndian, builder.Data()); err != nil {
		return errors.Wrap(err, "writing grid data")
	}
	return nil
}

func printf(w io.Writer, format string, a ...interface{}) {
	if _, err := fmt.Fprintf(w, format+"\n", a...); err != nil {
		logging.Global().Debugw("failed to print", "error", err)
	}
}
