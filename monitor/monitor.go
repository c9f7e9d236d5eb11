package monitor

import (
	"context"
	"sync"
	"time"

	"pdfchat_backend/models"
	"pdfchat_backend/pkg/logging"
)

// Document is the monitor's view of one entry in the authoritative
// document list supplied by the host.
type Document struct {
	ID     string
	Status models.ProcessingStatus
}

// StatusStream is one live subscription to a document's status feed.
// Recv returns statuses in arrival order, including non-terminal repeats,
// and returns an error exactly once when the channel fails. Close must be
// safe to call more than once and concurrently with Recv.
type StatusStream interface {
	Recv() (models.ProcessingStatus, error)
	Close() error
}

// StreamOpener establishes a StatusStream for one document.
type StreamOpener interface {
	OpenStatusStream(ctx context.Context, docID string) (StatusStream, error)
}

// StreamOpenerFunc adapts a function to the StreamOpener interface.
type StreamOpenerFunc func(ctx context.Context, docID string) (StatusStream, error)

func (f StreamOpenerFunc) OpenStatusStream(ctx context.Context, docID string) (StatusStream, error) {
	return f(ctx, docID)
}

// StatusPoller performs one point-in-time status check. It is stateless;
// repeat scheduling belongs to the host's refresh cycle, not here.
type StatusPoller interface {
	CheckStatus(ctx context.Context, docID string) (models.ProcessingStatus, error)
}

// Notifier receives exactly one call per document terminal transition.
type Notifier interface {
	DocumentResolved(docID string, status models.ProcessingStatus)
}

// Monitor tracks the ingestion lifecycle of uploaded documents. For each
// non-terminal document it keeps one streaming session; on channel failure
// it falls back to a single poll, and on a non-terminal or failed poll it
// drops the session so the next Reconcile re-evaluates the document from
// the authoritative list.
type Monitor struct {
	registry    *Registry
	streams     StreamOpener
	poller      StatusPoller
	notifier    Notifier
	pollTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(streams StreamOpener, poller StatusPoller, notifier Notifier, pollTimeout time.Duration) *Monitor {
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		registry:    NewRegistry(),
		streams:     streams,
		poller:      poller,
		notifier:    notifier,
		pollTimeout: pollTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Reconcile diffs the supplied document list against the registry and
// starts a streaming session for every non-terminal document that is not
// already tracked. Tracked documents are left untouched regardless of the
// status the list reports: once tracking has begun the session's own event
// stream is the source of truth, so a stale list cannot tear down a live
// subscription. Documents absent from the list are not auto-removed.
func (m *Monitor) Reconcile(docs []Document) {
	if m.ctx.Err() != nil {
		return
	}
	for _, doc := range docs {
		if doc.ID == "" || doc.Status.Terminal() {
			continue
		}
		m.track(doc.ID)
	}
}

func (m *Monitor) track(docID string) {
	sessCtx, cancel := context.WithCancel(m.ctx)
	if err := m.registry.Start(docID, ModeStreaming, cancel); err != nil {
		// already tracked: idempotent no-op
		cancel()
		return
	}
	logging.Logger.Info("tracking document", "docID", docID)
	m.wg.Add(1)
	go m.run(sessCtx, docID)
}

// run owns one session from open to resolution.
func (m *Monitor) run(ctx context.Context, docID string) {
	defer m.wg.Done()

	stream, err := m.streams.OpenStatusStream(ctx, docID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Logger.Warn("fail OpenStatusStream, falling back to poll", "docID", docID, "error", err)
		m.fallbackToPoll(ctx, docID)
		return
	}
	defer stream.Close()

	for {
		status, err := stream.Recv()
		if err != nil {
			stream.Close()
			if ctx.Err() != nil {
				// torn down from outside; registry entry is already gone
				return
			}
			logging.Logger.Warn("status channel error, falling back to poll", "docID", docID, "error", err)
			m.fallbackToPoll(ctx, docID)
			return
		}
		if !status.Known() {
			logging.Logger.Warn("unrecognized processing status", "docID", docID, "status", string(status))
			continue
		}
		if status.Terminal() {
			// close before resolving so the notifier never sees a live channel
			stream.Close()
			m.resolve(docID, status)
			return
		}
	}
}

// fallbackToPoll issues one poll after a channel failure. A terminal result
// resolves the session; anything else removes it silently so the next
// reconciliation acts as the retry clock.
func (m *Monitor) fallbackToPoll(ctx context.Context, docID string) {
	if !m.registry.SwitchMode(docID, ModePolling) {
		// session stopped concurrently
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, m.pollTimeout)
	defer cancel()

	status, err := m.poller.CheckStatus(pollCtx, docID)
	if err != nil {
		if ctx.Err() == nil {
			logging.Logger.Warn("fail CheckStatus, deferring to next reconcile", "docID", docID, "error", err)
			m.registry.Resolve(docID)
		}
		return
	}
	if !status.Terminal() {
		m.registry.Resolve(docID)
		return
	}
	m.resolve(docID, status)
}

// resolve removes the session and notifies the host. Resolve's removal is
// the exactly-once gate: a session stopped or resolved elsewhere makes this
// a no-op, so duplicate terminal events never produce duplicate
// notifications.
func (m *Monitor) resolve(docID string, status models.ProcessingStatus) {
	if !m.registry.Resolve(docID) {
		return
	}
	logging.Logger.Info("document resolved", "docID", docID, "status", string(status))
	if m.notifier != nil {
		m.notifier.DocumentResolved(docID, status)
	}
}

// StopTracking force-closes any session for docID without emitting a
// notification. Calling it for an untracked document is a no-op.
func (m *Monitor) StopTracking(docID string) {
	if m.registry.Stop(docID) {
		logging.Logger.Info("stopped tracking document", "docID", docID)
	}
}

// InFlight returns the number of documents currently being tracked.
func (m *Monitor) InFlight() int {
	return m.registry.ActiveCount()
}

// Sessions returns a diagnostic snapshot of the tracked sessions.
func (m *Monitor) Sessions() []SessionInfo {
	return m.registry.Snapshot()
}

// Shutdown closes every channel, cancels in-flight polls and clears the
// registry without emitting notifications. It blocks until all session
// goroutines have exited.
func (m *Monitor) Shutdown() {
	m.cancel()
	m.registry.Clear()
	m.wg.Wait()
}
