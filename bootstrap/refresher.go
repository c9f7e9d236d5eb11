package bootstrap

import (
	"context"
	"time"

	"pdfchat_backend/monitor"
	"pdfchat_backend/pkg/logging"
	"pdfchat_backend/repository"
	"pdfchat_backend/services"
)

// Refresher periodically reloads the authoritative document list and hands
// it to the monitor. Every document the monitor dropped after a failed
// fallback poll gets picked up again on the next tick, so the tick interval
// is the retry clock for status tracking.
type Refresher struct {
	docRepo  repository.DocumentRepository
	monitor  *monitor.Monitor
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(docRepo repository.DocumentRepository, mon *monitor.Monitor, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{
		docRepo:  docRepo,
		monitor:  mon,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (r *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.loop(ctx)
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// reconcile once at startup so documents left pending by a previous
	// run are tracked again without waiting a full tick
	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	docs, err := r.docRepo.ListNonTerminal(ctx)
	if err != nil {
		logging.Logger.Error("fail listing non-terminal documents", "error", err)
		return
	}
	r.monitor.Reconcile(services.MonitorDocs(docs))
}

func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
