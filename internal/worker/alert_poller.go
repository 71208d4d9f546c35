package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/service"
)

// AlertPoller drives periodic alert recomputation. Alerts are purely
// derived, so the poller holds no state of its own: each pass reads a
// fresh snapshot and logs what surfaced. Data-changed events trigger an
// extra pass between ticks so newly stale entities show up without
// waiting out the interval.
type AlertPoller struct {
	alerts   *service.AlertService
	interval time.Duration
	logger   *zap.Logger
	kick     chan struct{}
}

// NewAlertPoller constructs the poller and subscribes it to the data
// update broadcast.
func NewAlertPoller(alerts *service.AlertService, dispatcher events.Dispatcher, interval time.Duration, logger *zap.Logger) *AlertPoller {
	p := &AlertPoller{
		alerts:   alerts,
		interval: interval,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
	dispatcher.Subscribe(events.EventDataUpdated, func(context.Context, events.Event) error {
		select {
		case p.kick <- struct{}{}:
		default:
		}
		return nil
	})
	return p
}

// Run blocks until the context is cancelled.
func (p *AlertPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pass(ctx)
		case <-p.kick:
			p.pass(ctx)
		}
	}
}

// pass recomputes the full alert set under an unrestricted viewer and
// logs the counts. Per-viewer filtering happens at request time.
func (p *AlertPoller) pass(ctx context.Context) {
	viewer := domain.ViewerContext{ConsultantID: "system", Role: domain.ConsultantRoleAdmin}
	alerts, err := p.alerts.ComputeAlerts(ctx, viewer)
	if err != nil {
		p.logger.Warn("alert pass failed", zap.Error(err))
		return
	}

	critical := 0
	for _, a := range alerts {
		if a.Severity == domain.AlertSeverityCritical {
			critical++
		}
	}
	p.logger.Info("alert pass completed",
		zap.Int("total", len(alerts)),
		zap.Int("critical", critical),
	)
}
