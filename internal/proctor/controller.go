package proctor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/rs/zerolog/log"
)

// State is the attempt lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateActive
	StateSubmitting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Controller drives one proctored attempt:
//
//	Idle -> Requesting -> Active -> Submitting -> Completed
//
// Active -> Submitting is also reached when the countdown hits zero
// (auto-submit); both paths converge on the same submission call. A failed
// submission stays in Submitting and the identical payload can be retried;
// the server treating the session as already submitted completes the attempt
// instead of erroring. The countdown ticker is stopped on Completed via every
// path.
type Controller struct {
	api     APIClient
	clock   Clock
	monitor EnvironmentMonitor

	mu            sync.Mutex
	state         State
	session       *dto.StartTestResponse
	remaining     time.Duration
	mcqAnswers    map[uint]int
	codingAnswers map[uint]string
	result        *dto.TestResultDTO
	inFlight      bool
	stop          chan struct{}
	warnFn        func(reason string)
}

func NewController(api APIClient, clock Clock, monitor EnvironmentMonitor) *Controller {
	return &Controller{
		api:           api,
		clock:         clock,
		monitor:       monitor,
		state:         StateIdle,
		mcqAnswers:    make(map[uint]int),
		codingAnswers: make(map[uint]string),
	}
}

// SetWarningHandler registers the sink for non-fatal proctoring warnings
// (focus loss while active). Must be called before Start.
func (c *Controller) SetWarningHandler(fn func(reason string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnFn = fn
}

// Start requests a session. The focus-mode precondition must hold before the
// request goes out; if it cannot be established the controller stays Idle and
// the error is recoverable by trying again.
func (c *Controller) Start(ctx context.Context, userID uint) error {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("cannot start a session from state %s", state)
	}
	if err := c.monitor.Engage(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("focus mode could not be established: %v: %w", err, apperr.ErrPreconditionFailed)
	}
	c.state = StateRequesting
	c.mu.Unlock()

	session, err := c.api.StartTest(ctx, userID)

	c.mu.Lock()
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.monitor.Release()
		return fmt.Errorf("failed to start session: %w", err)
	}
	c.session = session
	c.remaining = time.Duration(session.DurationMinutes) * time.Minute
	c.state = StateActive
	c.stop = make(chan struct{})
	c.mu.Unlock()

	c.monitor.OnLost(c.handleFocusLost)
	go c.runCountdown()

	log.Info().Str("sessionID", session.SessionID).Int("durationMinutes", session.DurationMinutes).
		Msg("Proctored session active")
	return nil
}

// SelectOption records an MCQ choice. Only valid while Active.
func (c *Controller) SelectOption(questionID uint, option int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return fmt.Errorf("cannot answer in state %s", c.state)
	}
	c.mcqAnswers[questionID] = option
	return nil
}

// WriteCode records (or overwrites) a coding answer. Only valid while Active.
func (c *Controller) WriteCode(questionID uint, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return fmt.Errorf("cannot answer in state %s", c.state)
	}
	c.codingAnswers[questionID] = code
	return nil
}

// Submit sends the recorded answers. Manual submission and countdown expiry
// both land here, so the scoring behavior is identical. Submission is
// serialized: a second call while one is in flight is rejected, and a failed
// call leaves the controller in Submitting for a retry with the same payload.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateCompleted:
		c.mu.Unlock()
		return nil
	case StateActive, StateSubmitting:
		// proceed
	default:
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("no submittable session in state %s", state)
	}
	if c.inFlight {
		c.mu.Unlock()
		return fmt.Errorf("a submission is already in flight")
	}
	c.inFlight = true
	c.state = StateSubmitting
	req := dto.SubmitTestRequest{
		SessionID:     c.session.SessionID,
		MCQAnswers:    copyIntMap(c.mcqAnswers),
		CodingAnswers: copyStringMap(c.codingAnswers),
	}
	c.mu.Unlock()

	result, err := c.api.SubmitTest(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidSession) {
			// The server already holds a submission for this session; the
			// attempt is done, not broken.
			log.Info().Str("sessionID", req.SessionID).Msg("Session already submitted server-side, completing")
			c.completeLocked(nil)
			return nil
		}
		log.Warn().Err(err).Str("sessionID", req.SessionID).Msg("Submission failed, staying in submitting for retry")
		return err
	}
	c.completeLocked(result)
	log.Info().Str("sessionID", req.SessionID).Float64("total", result.TotalScore).Msg("Attempt completed")
	return nil
}

// completeLocked transitions to Completed exactly once: stores the result,
// stops the countdown and releases focus mode. Callers hold c.mu.
func (c *Controller) completeLocked(result *dto.TestResultDTO) {
	if c.state == StateCompleted {
		return
	}
	c.state = StateCompleted
	if result != nil {
		c.result = result
	}
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.monitor.Release()
}

func (c *Controller) runCountdown() {
	c.mu.Lock()
	stop := c.stop
	c.mu.Unlock()
	if stop == nil {
		return
	}

	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			c.mu.Lock()
			if c.state != StateActive {
				c.mu.Unlock()
				continue
			}
			c.remaining -= time.Second
			expired := c.remaining <= 0
			c.mu.Unlock()

			if expired {
				log.Info().Msg("Countdown reached zero, auto-submitting")
				if err := c.Submit(context.Background()); err != nil {
					log.Warn().Err(err).Msg("Auto-submit failed, awaiting manual retry")
				}
				return
			}
		}
	}
}

func (c *Controller) handleFocusLost() {
	c.mu.Lock()
	active := c.state == StateActive
	fn := c.warnFn
	c.mu.Unlock()

	if !active {
		return
	}
	log.Warn().Msg("Focus mode lost during active session")
	if fn != nil {
		fn("focus mode lost; please return to the test")
	}
}

// State returns the current lifecycle position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining is the countdown budget left.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Session returns the issued session, nil before Active.
func (c *Controller) Session() *dto.StartTestResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Result returns the scored outcome, nil before Completed (and nil when the
// attempt completed via a server-side "already submitted" response).
func (c *Controller) Result() *dto.TestResultDTO {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func copyIntMap(in map[uint]int) map[uint]int {
	out := make(map[uint]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyStringMap(in map[uint]string) map[uint]string {
	out := make(map[uint]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
