package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/source"
	"github.com/securecomm/backend/store"
)

// PollerState is the coordinator lifecycle state
type PollerState string

const (
	StateIdle       PollerState = "idle"
	StateLoading    PollerState = "loading"
	StateReady      PollerState = "ready"
	StateRefreshing PollerState = "refreshing"
)

const (
	defaultMessageInterval = 5 * time.Second
	defaultFetchTimeout    = 10 * time.Second
)

// PollerConfig sets the refresh cadence per entity kind. A zero interval
// means that kind is loaded once at startup and never refreshed; a negative
// MessageInterval disables the message refresh too (zero selects the 5s
// default).
type PollerConfig struct {
	MessageInterval time.Duration
	VehicleInterval time.Duration
	NodeInterval    time.Duration
	AlertInterval   time.Duration
	FetchTimeout    time.Duration
}

// Poller drives the periodic refresh cycle: it pulls snapshots from the
// Source and merges them into the store. It is the single writer; derived
// views only ever read the store.
type Poller struct {
	src source.Source
	st  *store.Store
	log *zap.Logger
	cfg PollerConfig

	mu      sync.Mutex
	state   PollerState
	lastErr error
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a stopped coordinator. Call Start to perform the
// initial load and begin refreshing.
func NewPoller(src source.Source, st *store.Store, log *zap.Logger, cfg PollerConfig) *Poller {
	if cfg.MessageInterval == 0 {
		cfg.MessageInterval = defaultMessageInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &Poller{src: src, st: st, log: log, cfg: cfg, state: StateIdle}
}

// State returns the current coordinator state
func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastLoadError reports why the most recent Start failed; nil after a
// successful start.
func (p *Poller) LastLoadError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller) setState(s PollerState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Start performs the initial load of all four snapshots and, on success,
// launches the refresh loop. Any fetch failure during the initial load is
// returned as a *LoadError and the coordinator returns to idle: no partial
// dashboard. Start on a coordinator that is already loading or running is a
// no-op; only one load and one refresh loop ever exist at a time. Stop
// during the load cancels it before anything is published, and a stopped
// coordinator can be started again.
func (p *Poller) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		cancel()
		return nil
	}
	p.state = StateLoading
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	if err := p.initialLoad(runCtx); err != nil {
		close(done)
		p.mu.Lock()
		// Stop may have claimed cancel/done already; it owns the idle
		// transition then. done doubles as the generation token so a
		// later Start is never disturbed.
		if p.done == done {
			p.cancel, p.done = nil, nil
			p.state = StateIdle
			if runCtx.Err() == nil {
				p.lastErr = err
			}
		}
		p.mu.Unlock()
		cancel()
		return err
	}

	p.mu.Lock()
	if p.done != done {
		// Stop arrived during the load
		p.mu.Unlock()
		cancel()
		close(done)
		return nil
	}
	p.state = StateReady
	p.lastErr = nil
	p.mu.Unlock()

	p.log.Info("polling coordinator started",
		zap.Duration("messageInterval", p.cfg.MessageInterval),
		zap.Duration("vehicleInterval", p.cfg.VehicleInterval),
		zap.Duration("nodeInterval", p.cfg.NodeInterval),
		zap.Duration("alertInterval", p.cfg.AlertInterval))

	go p.run(runCtx, done)
	return nil
}

// Stop cancels the refresh loop and waits for it to exit, so no store
// mutation happens after Stop returns. Safe to call on a stopped poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.setState(StateIdle)
	p.log.Info("polling coordinator stopped")
}

func (p *Poller) initialLoad(ctx context.Context) error {
	fetch := func(kind string, fn func(context.Context) error) error {
		fctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		defer cancel()
		if err := fn(fctx); err != nil {
			return &LoadError{Kind: kind, Err: err}
		}
		return nil
	}

	var (
		vehicles []models.Vehicle
		nodes    []models.InfrastructureNode
		messages []models.CommunicationMessage
		alerts   []models.SecurityAlert
	)
	if err := fetch("vehicles", func(fctx context.Context) (err error) {
		vehicles, err = p.src.FetchVehicles(fctx)
		return
	}); err != nil {
		return err
	}
	if err := fetch("nodes", func(fctx context.Context) (err error) {
		nodes, err = p.src.FetchInfrastructureNodes(fctx)
		return
	}); err != nil {
		return err
	}
	if err := fetch("messages", func(fctx context.Context) (err error) {
		messages, err = p.src.FetchMessages(fctx)
		return
	}); err != nil {
		return err
	}
	if err := fetch("alerts", func(fctx context.Context) (err error) {
		alerts, err = p.src.FetchAlerts(fctx)
		return
	}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	p.st.ReplaceVehicles(vehicles)
	p.st.ReplaceNodes(nodes)
	p.st.AppendMessages(messages)
	p.st.ReplaceAlerts(alerts)
	p.logDirectionMismatches(messages)
	return nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	var messageC, vehicleC, nodeC, alertC <-chan time.Time
	if p.cfg.MessageInterval > 0 {
		t := time.NewTicker(p.cfg.MessageInterval)
		defer t.Stop()
		messageC = t.C
	}
	if p.cfg.VehicleInterval > 0 {
		t := time.NewTicker(p.cfg.VehicleInterval)
		defer t.Stop()
		vehicleC = t.C
	}
	if p.cfg.NodeInterval > 0 {
		t := time.NewTicker(p.cfg.NodeInterval)
		defer t.Stop()
		nodeC = t.C
	}
	if p.cfg.AlertInterval > 0 {
		t := time.NewTicker(p.cfg.AlertInterval)
		defer t.Stop()
		alertC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-messageC:
			p.refresh(ctx, "messages", func(fctx context.Context) error {
				batch, err := p.src.FetchMessages(fctx)
				if err != nil {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.st.AppendMessages(batch)
				p.logDirectionMismatches(batch)
				return nil
			})
		case <-vehicleC:
			p.refresh(ctx, "vehicles", func(fctx context.Context) error {
				vehicles, err := p.src.FetchVehicles(fctx)
				if err != nil {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.st.ReplaceVehicles(vehicles)
				return nil
			})
		case <-nodeC:
			p.refresh(ctx, "nodes", func(fctx context.Context) error {
				nodes, err := p.src.FetchInfrastructureNodes(fctx)
				if err != nil {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.st.ReplaceNodes(nodes)
				return nil
			})
		case <-alertC:
			p.refresh(ctx, "alerts", func(fctx context.Context) error {
				alerts, err := p.src.FetchAlerts(fctx)
				if err != nil {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.st.ReplaceAlerts(alerts)
				return nil
			})
		}
	}
}

// refresh runs one tick. Failures are demoted to a logged RefreshError and
// the previous state stays in place; the next tick is the retry.
func (p *Poller) refresh(ctx context.Context, kind string, fn func(context.Context) error) {
	p.setState(StateRefreshing)
	defer p.setState(StateReady)

	fctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	if err := fn(fctx); err != nil && ctx.Err() == nil {
		rerr := &RefreshError{Kind: kind, Err: err}
		p.log.Warn("refresh tick failed, keeping previous state", zap.Error(rerr))
	}
}
