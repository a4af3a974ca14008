package core

// PredictorStats counts how a predictor has fared over a run.
type PredictorStats struct {
	Predictions    uint64
	Mispredictions uint64
}

// Accuracy returns the fraction of predictions that proved correct, or 0 when
// no prediction has been made yet.
func (s PredictorStats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Predictions-s.Mispredictions) / float64(s.Predictions)
}

// MispredictionRate returns the fraction of predictions that proved wrong.
func (s PredictorStats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions)
}

// Predictor is the interface the Branch Unit predicts through. Indexing is
// by branch *instruction ID*, not PC, so a superior predictor can be
// substituted without touching the Branch Unit.
type Predictor interface {
	// Predict returns the current predicted outcome for a branch ID. The
	// first prediction for any ID is not-taken.
	Predict(branchID uint64) bool
	// Update records the actual outcome observed for a branch ID.
	Update(branchID uint64, taken bool)
	// Stats reports prediction counts accumulated since the last Reset.
	Stats() PredictorStats
	// Reset clears all history and statistics.
	Reset()
}

// OneBitPredictor keeps a single last-outcome bit per branch ID, flipped
// only on misprediction.
type OneBitPredictor struct {
	bits  map[uint64]bool
	stats PredictorStats
}

// NewOneBitPredictor returns a predictor with no history yet recorded.
func NewOneBitPredictor() *OneBitPredictor {
	return &OneBitPredictor{bits: make(map[uint64]bool)}
}

// Predict returns false (not-taken) for a branch seen for the first time.
func (p *OneBitPredictor) Predict(branchID uint64) bool {
	p.stats.Predictions++
	return p.bits[branchID]
}

// Update overwrites the stored bit with the actual outcome. The stored bit
// is the prediction the branch was issued with, so a mismatch here is
// exactly a misprediction, and overwriting leaves the bit unchanged on a
// correct prediction and inverted on a wrong one.
func (p *OneBitPredictor) Update(branchID uint64, taken bool) {
	if p.bits[branchID] != taken {
		p.stats.Mispredictions++
	}
	p.bits[branchID] = taken
}

// Stats reports counts accumulated since the last Reset.
func (p *OneBitPredictor) Stats() PredictorStats { return p.stats }

// Reset clears every stored bit and the statistics.
func (p *OneBitPredictor) Reset() {
	p.bits = make(map[uint64]bool)
	p.stats = PredictorStats{}
}

// TwoBitPredictor is a 2-bit saturating counter per branch ID, from
// strongly-not-taken through strongly-taken. It needs two consecutive
// surprises to flip its prediction, which a loop branch rewards. Not wired
// in by default.
type TwoBitPredictor struct {
	counters map[uint64]uint8
	stats    PredictorStats
}

// NewTwoBitPredictor returns a predictor initialized to "strongly not-taken"
// for any branch ID on first use.
func NewTwoBitPredictor() *TwoBitPredictor {
	return &TwoBitPredictor{counters: make(map[uint64]uint8)}
}

func (p *TwoBitPredictor) taken(branchID uint64) bool {
	return p.counters[branchID] >= 2
}

// Predict reports taken when the saturating counter is 2 or 3.
func (p *TwoBitPredictor) Predict(branchID uint64) bool {
	p.stats.Predictions++
	return p.taken(branchID)
}

// Update moves the counter one step towards the observed outcome.
func (p *TwoBitPredictor) Update(branchID uint64, taken bool) {
	if p.taken(branchID) != taken {
		p.stats.Mispredictions++
	}
	c := p.counters[branchID]
	if taken {
		if c < 3 {
			c++
		}
	} else {
		if c > 0 {
			c--
		}
	}
	p.counters[branchID] = c
}

// Stats reports counts accumulated since the last Reset.
func (p *TwoBitPredictor) Stats() PredictorStats { return p.stats }

// Reset clears every counter and the statistics.
func (p *TwoBitPredictor) Reset() {
	p.counters = make(map[uint64]uint8)
	p.stats = PredictorStats{}
}
