package srs

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Lower bound for the ease factor
	MinEaseFactor float64

	// Ratings with a quality below this threshold count as a lapse
	PassingQuality int

	// Fixed intervals (days) for the early repetitions and for lapses
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	PassingQuality int
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  1.3,
		PassingQuality: 3,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassingQuality > 0 {
		params.PassingQuality = config.PassingQuality
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
