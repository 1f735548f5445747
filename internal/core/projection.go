package core

// DefaultAnnualRate is the growth assumption used when the caller does not
// supply one.
const DefaultAnnualRate = 0.07

type (
	// ProjectionPoint is the portfolio value after a completed year.
	ProjectionPoint struct {
		Year  int   `json:"year"`
		Value Money `json:"value"`
	}

	// Projection is the result of a compound-growth simulation.
	Projection struct {
		FinalValue Money             `json:"finalValue"`
		Series     []ProjectionPoint `json:"series"`
	}
)

// Project simulates monthly-compounded growth: each month the running total
// grows by annualRate/12 and then receives the monthly contribution. One
// series point is emitted per completed year. years <= 0 yields an empty
// series with FinalValue equal to the initial capital; negative numeric
// inputs compute through rather than panicking (monotonicity is only
// guaranteed for non-negative rate and contribution).
func Project(initial, monthly Money, years int, annualRate float64) Projection {
	if years <= 0 {
		return Projection{FinalValue: initial}
	}

	r := annualRate / 12
	total := initial.Float()
	contribution := monthly.Float()
	series := make([]ProjectionPoint, 0, years)
	for m := 1; m <= years*12; m++ {
		total = total*(1+r) + contribution
		if m%12 == 0 {
			series = append(series, ProjectionPoint{
				Year:  m / 12,
				Value: Money{Cents: CentsFromFloat(total)},
			})
		}
	}

	return Projection{
		FinalValue: Money{Cents: CentsFromFloat(total)},
		Series:     series,
	}
}
