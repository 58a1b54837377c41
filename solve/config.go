package solve

// Config holds root finder parameters.
type Config struct {
	// InitialGuess is used when the caller supplies no guess.
	InitialGuess float64 `json:"initial_guess" yaml:"initial_guess" toml:"initial_guess"`

	// MaxIterations bounds the Newton-Raphson loop.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`

	// Tolerance applies to both the residual |f(x)| and the step |dx|.
	Tolerance float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance"`

	// DerivativeThreshold is the minimum derivative magnitude.
	// Below this, iteration stops to avoid division by near-zero.
	DerivativeThreshold float64 `json:"derivative_threshold" yaml:"derivative_threshold" toml:"derivative_threshold"`

	// StepScale and MinStep size the forward difference:
	// h = max(MinStep, |x|*StepScale).
	StepScale float64 `json:"step_scale" yaml:"step_scale" toml:"step_scale"`
	MinStep   float64 `json:"min_step" yaml:"min_step" toml:"min_step"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	InitialGuess:        0.1,
	MaxIterations:       100,
	Tolerance:           1e-10,
	DerivativeThreshold: 1e-10,
	StepScale:           1e-8,
	MinStep:             1e-8,
}

func (c Config) withDefaults() Config {
	if c.InitialGuess == 0 {
		c.InitialGuess = DefaultConfig.InitialGuess
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultConfig.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultConfig.Tolerance
	}
	if c.DerivativeThreshold <= 0 {
		c.DerivativeThreshold = DefaultConfig.DerivativeThreshold
	}
	if c.StepScale <= 0 {
		c.StepScale = DefaultConfig.StepScale
	}
	if c.MinStep <= 0 {
		c.MinStep = DefaultConfig.MinStep
	}
	return c
}
