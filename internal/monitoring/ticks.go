package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/events"
)

// TickMonitor tracks how long simulation ticks take and warns when a tick
// runs over budget. It subscribes to tick.ended events.
type TickMonitor struct {
	mu            sync.RWMutex
	last          time.Duration
	peak          time.Duration
	total         time.Duration
	count         int
	overBudget    int
	budget        time.Duration
	lastAlert     time.Time
	alertCooldown time.Duration
	reportEvery   time.Duration
	gameTicks     map[string]int
	stopChan      chan struct{}
	stopOnce      sync.Once
	logger        zerolog.Logger
	now           func() time.Time
}

// NewTickMonitor creates a monitor warning about ticks longer than budget
func NewTickMonitor(budget, alertCooldown time.Duration, logger zerolog.Logger) *TickMonitor {
	return &TickMonitor{
		budget:        budget,
		alertCooldown: alertCooldown,
		reportEvery:   30 * time.Second,
		gameTicks:     make(map[string]int),
		stopChan:      make(chan struct{}),
		logger:        logger.With().Str("component", "TickMonitor").Logger(),
		now:           time.Now,
	}
}

// ID implements events.Subscriber
func (tm *TickMonitor) ID() string { return "tick-monitor" }

// InterestedIn implements events.Subscriber
func (tm *TickMonitor) InterestedIn(eventType string) bool {
	return eventType == events.TypeTickEnded
}

// HandleEvent implements events.Subscriber
func (tm *TickMonitor) HandleEvent(event events.Event) {
	if e, ok := event.(*events.TickEndedEvent); ok {
		tm.Record(e.GameID(), e.Tick, e.ProcessedTime)
	}
}

// Record adds one tick duration
func (tm *TickMonitor) Record(gameID string, tick int, d time.Duration) {
	tm.mu.Lock()
	tm.last = d
	if d > tm.peak {
		tm.peak = d
	}
	tm.total += d
	tm.count++
	tm.gameTicks[gameID]++

	over := tm.budget > 0 && d > tm.budget
	if over {
		tm.overBudget++
	}
	now := tm.now()
	shouldAlert := over && (tm.lastAlert.IsZero() || now.Sub(tm.lastAlert) > tm.alertCooldown)
	if shouldAlert {
		tm.lastAlert = now
	}
	tm.mu.Unlock()

	if shouldAlert {
		tm.logger.Warn().
			Str("game_id", gameID).
			Int("tick", tick).
			Dur("duration", d).
			Dur("budget", tm.budget).
			Msg("Tick exceeded its time budget")
	}
}

// Forget drops the per-game counter of a finished simulation
func (tm *TickMonitor) Forget(gameID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.gameTicks, gameID)
}

// Start begins periodic metric logging
func (tm *TickMonitor) Start() {
	go tm.report()
	tm.logger.Info().Dur("budget", tm.budget).Msg("Started tick monitoring")
}

// Stop stops periodic logging; it is safe to call more than once
func (tm *TickMonitor) Stop() {
	tm.stopOnce.Do(func() { close(tm.stopChan) })
}

func (tm *TickMonitor) report() {
	ticker := time.NewTicker(tm.reportEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m := tm.GetMetrics()
			tm.logger.Debug().
				Int("ticks", m.Ticks).
				Dur("last", m.Last).
				Dur("peak", m.Peak).
				Dur("average", m.Average).
				Int("over_budget", m.OverBudget).
				Int("games", len(m.GameTicks)).
				Msg("Tick metrics")
		case <-tm.stopChan:
			return
		}
	}
}

// GetMetrics returns the current tick metrics
func (tm *TickMonitor) GetMetrics() TickMetrics {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	var avg time.Duration
	if tm.count > 0 {
		avg = tm.total / time.Duration(tm.count)
	}
	return TickMetrics{
		Ticks:      tm.count,
		Last:       tm.last,
		Peak:       tm.peak,
		Average:    avg,
		OverBudget: tm.overBudget,
		GameTicks:  copyMap(tm.gameTicks),
	}
}

// TickMetrics contains tick duration statistics
type TickMetrics struct {
	Ticks      int            `json:"ticks"`
	Last       time.Duration  `json:"last"`
	Peak       time.Duration  `json:"peak"`
	Average    time.Duration  `json:"average"`
	OverBudget int            `json:"over_budget"`
	GameTicks  map[string]int `json:"game_ticks"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
