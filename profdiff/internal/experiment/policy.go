package experiment

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalidPolicy = errors.New("invalid hot compilation unit policy")

var validate = validator.New(validator.WithRequiredStructEnabled())

// HotCompilationUnitPolicy selects the compilations which account for most of the execution period.
type HotCompilationUnitPolicy struct {
	// HotPercentile is the share of the total period covered by hot compilations.
	HotPercentile float64 `yaml:"hot_percentile" validate:"gte=0,lte=1"`
	// HotMinLimit is the number of top compilations which are always hot.
	HotMinLimit int `yaml:"hot_min_limit" validate:"gte=0"`
	// HotMaxLimit caps the number of hot compilations.
	HotMaxLimit int `yaml:"hot_max_limit" validate:"gte=0,gtefield=HotMinLimit"`
}

func DefaultHotCompilationUnitPolicy() HotCompilationUnitPolicy {
	return HotCompilationUnitPolicy{
		HotPercentile: 0.9,
		HotMinLimit:   1,
		HotMaxLimit:   10,
	}
}

func (p HotCompilationUnitPolicy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	return nil
}

// Apply marks the hot compilation units of the experiment and clears the flag of the others.
// Units are ranked by descending period; units with equal periods keep their input order.
// The unit at rank i is hot iff i <= HotMaxLimit and either i <= HotMinLimit or the cumulative period
// up to and including it does not exceed HotPercentile of the total period.
func (p HotCompilationUnitPolicy) Apply(e *Experiment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	units := slices.Clone(e.CompilationUnits())
	slices.SortStableFunc(units, func(a, b *CompilationUnit) int {
		return cmp.Compare(b.Period, a.Period)
	})

	total := e.TotalPeriod
	if total <= 0 {
		for _, unit := range units {
			total += unit.Period
		}
	}
	// The percentile is taken as the shortest decimal it prints as, so 0.57 of 100 is exactly 57.
	limit := decimal.NewFromFloat(p.HotPercentile).Mul(decimal.NewFromInt(total))

	var cumulative int64
	for i, unit := range units {
		rank := i + 1
		cumulative += unit.Period
		hot := rank <= p.HotMinLimit || decimal.NewFromInt(cumulative).LessThanOrEqual(limit)
		unit.SetHot(hot && rank <= p.HotMaxLimit)
	}
	return nil
}
