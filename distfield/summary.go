package distfield

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// Summary holds statistics over the voxel values of a built field.
type Summary struct {
	Count    int     `json:"count"`
	Negative int     `json:"negative"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
}

// Summary returns statistics over every voxel. It fails if the field has not been built.
func (b *Builder[T]) Summary() (Summary, error) {
	if len(b.data) == 0 {
		return Summary{}, errors.New("distance field has not been built")
	}
	raw := lo.Map(b.data, func(v T, _ int) float64 {
		return float64(v)
	})
	values := stats.Float64Data(raw)

	s := Summary{
		Count: len(raw),
		Negative: lo.CountBy(raw, func(v float64) bool {
			return v < 0
		}),
	}
	var errMin, errMax, errMean, errMedian, errStdDev error
	s.Min, errMin = values.Min()
	s.Max, errMax = values.Max()
	s.Mean, errMean = values.Mean()
	s.Median, errMedian = values.Median()
	s.StdDev, errStdDev = values.StandardDeviation()
	err := multierr.Combine(errMin, errMax, errMean, errMedian, errStdDev)
	if err != nil {
		return Summary{}, errors.Wrap(err, "summarizing distance field")
	}
	return s, nil
}
