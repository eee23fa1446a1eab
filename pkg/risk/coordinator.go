package risk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

// ErrSuperseded is returned for a call whose result was discarded because a
// newer call for the same patient started or the patient was cleared.
var ErrSuperseded = errors.New("risk: assessment superseded")

// Predictor scores one feature record. A nil prediction means the model
// returned no verdict.
type Predictor interface {
	Predict(ctx context.Context, record models.RiskFeatureRecord) (*int, error)
}

// Assessment is the session-local outcome of one predictor call.
type Assessment struct {
	Features   models.RiskFeatureRecord `json:"features"`
	Prediction *int                     `json:"prediction"`
	AssessedAt time.Time                `json:"assessed_at"`
}

// generation is drawn from a coordinator-wide sequence so a slot recreated
// after Clear never matches a call started before it.
type slot struct {
	generation uint64
	cancel     context.CancelFunc
	latest     *Assessment
}

// Coordinator serialises predictor calls per patient: submitting a new call
// cancels the one in flight, and only the newest call may publish its
// result. State lives for the process only.
type Coordinator struct {
	predictor Predictor
	now       func() time.Time

	mu    sync.Mutex
	seq   uint64
	slots map[string]*slot
}

func NewCoordinator(p Predictor) *Coordinator {
	return &Coordinator{
		predictor: p,
		now:       time.Now,
		slots:     make(map[string]*slot),
	}
}

// Assess runs the predictor for patientID. It returns ErrSuperseded when a
// later Assess or Clear for the same patient overtook this call.
func (c *Coordinator) Assess(ctx context.Context, patientID string, record models.RiskFeatureRecord) (*Assessment, error) {
	if patientID == "" {
		return nil, ErrMissingPatientID
	}
	callCtx, gen := c.begin(ctx, patientID)

	prediction, err := c.predictor.Predict(callCtx, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[patientID]
	if !ok || s.generation != gen {
		return nil, ErrSuperseded
	}
	s.cancel()
	s.cancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}
	a := &Assessment{Features: record, Prediction: prediction, AssessedAt: c.now()}
	s.latest = a
	return a, nil
}

func (c *Coordinator) begin(ctx context.Context, patientID string) (context.Context, uint64) {
	callCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[patientID]
	if !ok {
		s = &slot{}
		c.slots[patientID] = s
	}
	if s.cancel != nil {
		s.cancel()
	}
	c.seq++
	s.generation = c.seq
	s.cancel = cancel
	return callCtx, s.generation
}

// Clear cancels any call in flight for patientID and forgets its result.
func (c *Coordinator) Clear(patientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[patientID]
	if !ok {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	delete(c.slots, patientID)
}

// Latest returns the last published assessment for patientID.
func (c *Coordinator) Latest(patientID string) (*Assessment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[patientID]
	if !ok || s.latest == nil {
		return nil, false
	}
	a := *s.latest
	return &a, true
}

// InFlight reports whether a call is running for patientID.
func (c *Coordinator) InFlight(patientID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[patientID]
	return ok && s.cancel != nil
}
