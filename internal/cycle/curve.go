package cycle

import "fmt"

// Curve is a piecewise-linear scoring curve: X holds the raw-value
// breakpoints, Y the score at each breakpoint. Segments interpolate
// linearly, so the curve is continuous at every breakpoint by construction;
// inputs beyond either end clamp to the end score.
type Curve struct {
	Name string
	X    []float64
	Y    []float64
}

// Score maps a raw indicator value onto [0,100].
func (c Curve) Score(raw float64) float64 {
	n := len(c.X)
	if raw <= c.X[0] {
		return c.Y[0]
	}
	if raw >= c.X[n-1] {
		return c.Y[n-1]
	}
	for i := 1; i < n; i++ {
		if raw < c.X[i] {
			span := c.X[i] - c.X[i-1]
			frac := (raw - c.X[i-1]) / span
			return c.Y[i-1] + frac*(c.Y[i]-c.Y[i-1])
		}
	}
	return c.Y[n-1]
}

// Ascending reports the curve direction: true when higher raw values score
// higher.
func (c Curve) Ascending() bool { return c.Y[len(c.Y)-1] > c.Y[0] }

// validate checks breakpoint ordering and per-segment monotonicity in the
// curve's overall direction.
func (c Curve) validate() error {
	if len(c.X) < 2 || len(c.X) != len(c.Y) {
		return fmt.Errorf("curve %s: need matching X/Y breakpoints", c.Name)
	}
	asc := c.Ascending()
	for i := 1; i < len(c.X); i++ {
		if c.X[i] <= c.X[i-1] {
			return fmt.Errorf("curve %s: breakpoints must strictly increase", c.Name)
		}
		if asc && c.Y[i] < c.Y[i-1] {
			return fmt.Errorf("curve %s: segment %d breaks ascending monotonicity", c.Name, i)
		}
		if !asc && c.Y[i] > c.Y[i-1] {
			return fmt.Errorf("curve %s: segment %d breaks descending monotonicity", c.Name, i)
		}
	}
	return nil
}

// Reference curves. Breakpoint tables are part of the scoring contract;
// changing them changes every downstream composite.
var (
	// ISM PMI: 50 is the expansion boundary, 52 scores 58.
	curveISMPMI = Curve{
		Name: "ism_pmi",
		X:    []float64{30, 42, 48, 50, 55, 60, 70},
		Y:    []float64{0, 20, 40, 50, 70, 90, 100},
	}

	// Core inflation YoY percent; hotter inflation reads as later cycle.
	curveCoreInflation = Curve{
		Name: "core_inflation_yoy",
		X:    []float64{0, 1, 2, 3, 5, 8},
		Y:    []float64{0, 20, 40, 60, 85, 100},
	}

	// Policy rate percent.
	curvePolicyRate = Curve{
		Name: "policy_rate",
		X:    []float64{0, 1, 2.5, 4, 6},
		Y:    []float64{0, 25, 50, 75, 100},
	}

	// 10y-2y spread in percent; inversion reads as late cycle.
	curveYieldCurve = Curve{
		Name: "yield_curve_spread",
		X:    []float64{-2, -0.5, 0, 1, 2, 3},
		Y:    []float64{100, 85, 70, 40, 15, 0},
	}

	// High-yield OAS in basis points; elevated spreads score low.
	curveHighYield = Curve{
		Name: "high_yield_spread",
		X:    []float64{250, 400, 600, 800, 1000, 1500},
		Y:    []float64{100, 80, 55, 30, 15, 0},
	}

	// Investment-grade OAS in basis points.
	curveIGSpread = Curve{
		Name: "ig_spread",
		X:    []float64{80, 120, 160, 220, 300},
		Y:    []float64{100, 80, 60, 35, 0},
	}

	// Chicago Fed NFCI; negative is loose, positive is tight.
	curveFinConditions = Curve{
		Name: "financial_conditions",
		X:    []float64{-0.6, -0.3, 0, 0.5, 1, 2},
		Y:    []float64{100, 85, 65, 35, 15, 0},
	}

	// M2 growth YoY percent.
	curveM2Growth = Curve{
		Name: "m2_growth_yoy",
		X:    []float64{-5, 0, 3, 6, 10, 15},
		Y:    []float64{0, 25, 50, 70, 90, 100},
	}

	// Volatility index level; calm tape scores high.
	curveVolatility = Curve{
		Name: "volatility_index",
		X:    []float64{12, 16, 20, 28, 40, 60},
		Y:    []float64{100, 80, 60, 35, 10, 0},
	}
)
