package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/models"
	"github.com/vytor/techquiz/internal/worker"
)

var (
	ErrDisposed      = errors.New("quiz view has been disposed")
	ErrInvalidAnswer = errors.New("answer index out of range")
)

const (
	defaultFetchTimeout = 10 * time.Second
	subscriberBuffer    = 4
)

// Source supplies random question sets.
type Source interface {
	FetchRandom(ctx context.Context) ([]models.Question, error)
}

// Runner executes fetch jobs. *worker.Pool satisfies it.
type Runner interface {
	Submit(job worker.Job) error
}

// GoRunner runs every job on its own goroutine.
type GoRunner struct{}

func (GoRunner) Submit(job worker.Job) error {
	go job.Run(context.Background())
	return nil
}

// Controller owns the session of one mounted view and performs the fetch
// side effect whenever the session enters Loading.
type Controller struct {
	source  Source
	runner  Runner
	timeout time.Duration
	log     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	session  Session
	disposed bool
	subs     map[int]chan View
	nextSub  int
}

type Option func(*Controller)

func WithRunner(r Runner) Option {
	return func(c *Controller) { c.runner = r }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(source Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:  source,
		runner:  GoRunner{},
		timeout: defaultFetchTimeout,
		log:     logger.Default().WithPrefix("quiz"),
		ctx:     ctx,
		cancel:  cancel,
		session: Session{Phase: PhaseNotStarted},
		subs:    map[int]chan View{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins loading a question set. It is rejected while a set is
// loading or being played.
func (c *Controller) Start() (View, error) {
	return c.dispatch(func(Session) (Event, error) { return Start{}, nil })
}

// Restart throws away a completed or failed session and loads a new set.
func (c *Controller) Restart() (View, error) {
	return c.dispatch(func(Session) (Event, error) { return Restart{}, nil })
}

// SelectAnswer answers the current question with the answer at position i.
func (c *Controller) SelectAnswer(i int) (View, error) {
	return c.dispatch(func(s Session) (Event, error) {
		q, ok := s.Current()
		if !ok {
			// Let Transition report the phase mismatch.
			return Answer{}, nil
		}
		if i < 0 || i >= len(q.Answers) {
			return nil, fmt.Errorf("%w: %d of %d", ErrInvalidAnswer, i, len(q.Answers))
		}
		return Answer{Answer: q.Answers[i]}, nil
	})
}

// View returns the current rendering snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewOf(c.session)
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Subscribe returns a channel receiving the view after every state change.
// A slow subscriber loses intermediate views but always gets the latest one.
// The channel is closed by cancel or by Dispose.
func (c *Controller) Subscribe() (<-chan View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan View, subscriberBuffer)
	if c.disposed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers returns the number of open subscriptions.
func (c *Controller) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Dispose tears the view down: the in-flight fetch is cancelled, its result
// is discarded, and subscribers are closed.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.cancel()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.log.Debug("controller disposed in phase %s", c.session.Phase)
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Controller) dispatch(build func(Session) (Event, error)) (View, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return View{}, ErrDisposed
	}

	prev := c.session
	ev, err := build(prev)
	if err != nil {
		c.mu.Unlock()
		return ViewOf(prev), err
	}
	next, err := Transition(prev, ev)
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("rejected %s: %v", ev.eventName(), err)
		return ViewOf(prev), err
	}
	c.setLocked(next)
	fetch := next.Phase == PhaseLoading && next.Attempt != prev.Attempt
	c.mu.Unlock()

	if !fetch {
		return ViewOf(next), nil
	}
	// The fetch may already have settled the attempt (inline runner, or a
	// rejected submit), so report the session as it is now.
	c.issueFetch(next.Attempt)
	return c.View(), nil
}

// deliver applies an asynchronous fetch outcome. Outcomes for disposed
// controllers or superseded attempts are dropped.
func (c *Controller) deliver(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		c.log.Debug("dropping %s for disposed view", ev.eventName())
		return
	}
	next, err := Transition(c.session, ev)
	if err != nil {
		c.log.Debug("dropping %s: %v", ev.eventName(), err)
		return
	}
	c.setLocked(next)
	switch next.Phase {
	case PhaseInProgress:
		c.log.Info("question set loaded: attempt=%d questions=%d", next.Attempt, next.Total())
	case PhaseFailed:
		c.log.Warn("question set failed to load: attempt=%d: %v", next.Attempt, next.Err)
	}
}

func (c *Controller) setLocked(s Session) {
	c.session = s
	v := ViewOf(s)
	for _, ch := range c.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

func (c *Controller) issueFetch(attempt uint64) {
	job := &fetchJob{c: c, attempt: attempt}
	if err := c.runner.Submit(job); err != nil {
		c.log.Warn("could not schedule question fetch: %v", err)
		c.deliver(Failed{Attempt: attempt, Err: apperrors.NewTransportError(err)})
		return
	}
	c.log.Debug("question fetch scheduled: attempt=%d", attempt)
}

type fetchJob struct {
	c       *Controller
	attempt uint64
}

func (j *fetchJob) Name() string {
	return fmt.Sprintf("fetch-questions#%d", j.attempt)
}

func (j *fetchJob) Run(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(j.c.ctx, j.c.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	questions, err := j.c.source.FetchRandom(logger.NewContext(fetchCtx, logger.FromContext(ctx)))
	if err != nil {
		j.c.deliver(Failed{Attempt: j.attempt, Err: err})
		return err
	}
	j.c.deliver(Loaded{Attempt: j.attempt, Questions: questions})
	return nil
}
