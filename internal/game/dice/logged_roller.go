package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged draws.
// All draws are logged at debug level with their label and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src must be non-nil. A nil logger disables logging.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn draws from the underlying source without logging, so a Roller can
// stand in wherever a Source is expected.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Pick draws an index in [0, n) and logs it under label.
//
// Precondition: n > 0.
func (r *Roller) Pick(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice pick",
		zap.String("label", label),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Percent performs a percent-chance check and logs the result.
//
// Postcondition: result logged; returns the full PercentRoll.
func (r *Roller) Percent(label string, chance int) PercentRoll {
	roll := RollPercent(label, chance, r.src)
	r.logger.Debug("dice percent",
		zap.String("label", roll.Label),
		zap.Int("chance", roll.Chance),
		zap.Int("value", roll.Value),
		zap.Bool("success", roll.Success()),
	)
	return roll
}
