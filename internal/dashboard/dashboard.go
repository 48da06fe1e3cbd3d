package dashboard

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/pkg/models"
)

// State is the observable state of the component
type State int

const (
	// Loading means no dataset has been stored yet, including after a failed fetch
	Loading State = iota
	// Loaded means a fetch succeeded and its dataset is in place
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Fetcher loads the dataset
type Fetcher interface {
	Fetch(ctx context.Context) (models.Dataset, error)
}

// Component owns the dataset for one chart. It performs a single load per
// lifetime and recomputes chart options from whatever is currently stored.
type Component struct {
	fetcher   Fetcher
	presenter *chart.Presenter
	log       *zap.Logger

	once sync.Once
	done chan struct{}

	mu        sync.RWMutex
	dataset   models.Dataset
	cancel    context.CancelFunc
	unmounted bool
	listeners []func(chart.Options)
}

// New creates an unmounted component
func New(f Fetcher, p *chart.Presenter, log *zap.Logger) *Component {
	if log == nil {
		log = zap.NewNop()
	}
	return &Component{
		fetcher:   f,
		presenter: p,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Mount starts the one asynchronous load of this component's lifetime.
// Later calls do nothing.
func (c *Component) Mount(ctx context.Context) {
	c.once.Do(func() {
		ctx, cancel := context.WithCancel(ctx)

		c.mu.Lock()
		if c.unmounted {
			c.mu.Unlock()
			cancel()
			close(c.done)
			return
		}
		c.cancel = cancel
		c.mu.Unlock()

		go c.load(ctx, uuid.NewString())
	})
}

func (c *Component) load(ctx context.Context, id string) {
	defer close(c.done)
	log := c.log.With(zap.String("load_id", id))
	log.Debug("fetching dataset")

	ds, err := c.fetcher.Fetch(ctx)

	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		log.Debug("component unmounted before load finished, result discarded")
		return
	}
	if err != nil {
		c.mu.Unlock()
		log.Error(err.Error())
		return
	}
	c.dataset = ds
	listeners := make([]func(chart.Options), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	log.Debug("dataset loaded", zap.Int("records", len(ds)))

	opts := c.presenter.Options(ds)
	for _, fn := range listeners {
		fn(opts)
	}
}

// Unmount tears the component down. An in-flight load is cancelled and its
// result, if it still arrives, is dropped.
func (c *Component) Unmount() {
	c.mu.Lock()
	c.unmounted = true
	c.dataset = nil
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed once the load attempt has finished
func (c *Component) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the load attempt has finished or ctx is done
func (c *Component) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports whether a dataset has been loaded
func (c *Component) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dataset.Loaded() {
		return Loaded
	}
	return Loading
}

// Dataset returns the stored dataset, nil while loading. Callers must not
// modify it.
func (c *Component) Dataset() models.Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataset
}

// Options derives the chart configuration from the current dataset
func (c *Component) Options() chart.Options {
	return c.presenter.Options(c.Dataset())
}

// OnChange registers fn to receive the new options after a successful load
func (c *Component) OnChange(fn func(chart.Options)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
