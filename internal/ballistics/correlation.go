package ballistics

// Correlation maps Kn to chamber pressure (psi) and burn rate (in/s).
type Correlation interface {
	Pressure(kn float64) float64
	BurnRate(kn float64) float64
	// InRange reports whether kn lies inside the window the fit was
	// calibrated on.
	InRange(kn float64) bool
}

// LinearFit is a pair of straight-line fits against Kn. MaxKn of zero means
// no upper bound.
type LinearFit struct {
	PressureSlope     float64 `json:"pressure_slope" yaml:"pressure_slope"`
	PressureIntercept float64 `json:"pressure_intercept" yaml:"pressure_intercept"`
	RateSlope         float64 `json:"rate_slope" yaml:"rate_slope"`
	RateIntercept     float64 `json:"rate_intercept" yaml:"rate_intercept"`
	MinKn             float64 `json:"min_kn" yaml:"min_kn"`
	MaxKn             float64 `json:"max_kn" yaml:"max_kn"`
}

const (
	stockPressureSlope     = 2.725060
	stockPressureIntercept = -236.099212
	stockRateSlope         = 0.000366
	stockRateIntercept     = 0.083967
)

// StockFit returns the reference propellant fit. Its lower Kn bound is where
// the pressure line crosses zero.
func StockFit() LinearFit {
	return LinearFit{
		PressureSlope:     stockPressureSlope,
		PressureIntercept: stockPressureIntercept,
		RateSlope:         stockRateSlope,
		RateIntercept:     stockRateIntercept,
		MinKn:             -stockPressureIntercept / stockPressureSlope,
	}
}

func (f LinearFit) Pressure(kn float64) float64 {
	return f.PressureSlope*kn + f.PressureIntercept
}

func (f LinearFit) BurnRate(kn float64) float64 {
	return f.RateSlope*kn + f.RateIntercept
}

func (f LinearFit) InRange(kn float64) bool {
	if kn < f.MinKn {
		return false
	}
	if f.MaxKn > 0 && kn > f.MaxKn {
		return false
	}
	return f.Pressure(kn) >= 0
}
