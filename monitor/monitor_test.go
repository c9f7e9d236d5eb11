package monitor

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat_backend/models"
	"pdfchat_backend/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.Init()
	os.Exit(m.Run())
}

type streamEvent struct {
	status models.ProcessingStatus
	err    error
}

// fakeStream feeds scripted events to Recv. It honors the session context
// the same way the real stream does: cancellation fails the pending read.
type fakeStream struct {
	events chan streamEvent
	ctx    context.Context
	done   chan struct{}
	once   sync.Once
}

func newFakeStream(events ...streamEvent) *fakeStream {
	s := &fakeStream{
		events: make(chan streamEvent, len(events)+1),
		done:   make(chan struct{}),
	}
	for _, ev := range events {
		s.events <- ev
	}
	return s
}

func (s *fakeStream) Recv() (models.ProcessingStatus, error) {
	select {
	case ev := <-s.events:
		return ev.status, ev.err
	case <-s.ctx.Done():
		return "", s.ctx.Err()
	case <-s.done:
		return "", errors.New("stream closed")
	}
}

func (s *fakeStream) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *fakeStream) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// fakeOpener hands out scripted streams in order. Once the script runs dry
// it returns streams that block until the session is torn down.
type fakeOpener struct {
	mu      sync.Mutex
	scripts []*fakeStream
	opened  []*fakeStream
	err     error
}

func (o *fakeOpener) OpenStatusStream(ctx context.Context, docID string) (StatusStream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	var s *fakeStream
	if len(o.scripts) > 0 {
		s = o.scripts[0]
		o.scripts = o.scripts[1:]
	} else {
		s = newFakeStream()
	}
	s.ctx = ctx
	o.opened = append(o.opened, s)
	return s, nil
}

func (o *fakeOpener) openCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.opened)
}

type fakePoller struct {
	mu     sync.Mutex
	status models.ProcessingStatus
	err    error
	calls  int
}

func (p *fakePoller) CheckStatus(ctx context.Context, docID string) (models.ProcessingStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.status, p.err
}

func (p *fakePoller) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type resolution struct {
	docID  string
	status models.ProcessingStatus
}

type recordingNotifier struct {
	mu     sync.Mutex
	calls  []resolution
	onCall func(docID string)
}

func (n *recordingNotifier) DocumentResolved(docID string, status models.ProcessingStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.onCall != nil {
		n.onCall(docID)
	}
	n.calls = append(n.calls, resolution{docID: docID, status: status})
}

func (n *recordingNotifier) resolutions() []resolution {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]resolution, len(n.calls))
	copy(out, n.calls)
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func pending(id string) Document {
	return Document{ID: id, Status: models.StatusPending}
}

func TestStreamTerminalNotifiesOnce(t *testing.T) {
	stream := newFakeStream(
		streamEvent{status: models.StatusProcessing},
		streamEvent{status: models.StatusCompleted},
	)
	opener := &fakeOpener{scripts: []*fakeStream{stream}}
	poller := &fakePoller{}
	notifier := &recordingNotifier{}
	m := New(opener, poller, notifier, time.Second)
	defer m.Shutdown()

	// the channel must already be closed when the host hears about the
	// terminal status
	notifier.onCall = func(string) {
		assert.True(t, stream.closed())
	}

	m.Reconcile([]Document{pending("doc-1")})

	waitFor(t, "resolution", func() bool { return len(notifier.resolutions()) == 1 })
	require.Equal(t, []resolution{{docID: "doc-1", status: models.StatusCompleted}}, notifier.resolutions())
	assert.Equal(t, 0, m.InFlight())
	assert.Equal(t, 0, poller.callCount())
}

func TestChannelErrorFallsBackToPoll(t *testing.T) {
	stream := newFakeStream(streamEvent{err: errors.New("connection reset")})
	opener := &fakeOpener{scripts: []*fakeStream{stream}}
	poller := &fakePoller{status: models.StatusFailed}
	notifier := &recordingNotifier{}
	m := New(opener, poller, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})

	waitFor(t, "resolution", func() bool { return len(notifier.resolutions()) == 1 })
	require.Equal(t, []resolution{{docID: "doc-1", status: models.StatusFailed}}, notifier.resolutions())
	assert.Equal(t, 1, poller.callCount())
	assert.Equal(t, 0, m.InFlight())
}

func TestNonTerminalPollDropsSilently(t *testing.T) {
	opener := &fakeOpener{scripts: []*fakeStream{
		newFakeStream(streamEvent{err: errors.New("connection reset")}),
		newFakeStream(streamEvent{status: models.StatusCompleted}),
	}}
	poller := &fakePoller{status: models.StatusProcessing}
	notifier := &recordingNotifier{}
	m := New(opener, poller, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})

	// the failed fallback must free the slot without telling anyone
	waitFor(t, "session drop", func() bool { return m.InFlight() == 0 })
	assert.Empty(t, notifier.resolutions())
	require.Equal(t, 1, poller.callCount())

	// next refresh cycle picks the document up again
	m.Reconcile([]Document{pending("doc-1")})
	waitFor(t, "resolution", func() bool { return len(notifier.resolutions()) == 1 })
	assert.Equal(t, 2, opener.openCount())
	assert.Equal(t, models.StatusCompleted, notifier.resolutions()[0].status)
}

func TestPollErrorDropsSilently(t *testing.T) {
	opener := &fakeOpener{scripts: []*fakeStream{
		newFakeStream(streamEvent{err: errors.New("connection reset")}),
	}}
	poller := &fakePoller{err: errors.New("engine unavailable")}
	notifier := &recordingNotifier{}
	m := New(opener, poller, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})

	waitFor(t, "session drop", func() bool { return m.InFlight() == 0 })
	assert.Empty(t, notifier.resolutions())
}

func TestOpenErrorFallsBackToPoll(t *testing.T) {
	opener := &fakeOpener{err: errors.New("dial refused")}
	poller := &fakePoller{status: models.StatusCompleted}
	notifier := &recordingNotifier{}
	m := New(opener, poller, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})

	waitFor(t, "resolution", func() bool { return len(notifier.resolutions()) == 1 })
	assert.Equal(t, models.StatusCompleted, notifier.resolutions()[0].status)
}

func TestReconcileIgnoresTrackedAndTerminal(t *testing.T) {
	opener := &fakeOpener{}
	notifier := &recordingNotifier{}
	m := New(opener, &fakePoller{}, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{
		pending("doc-1"),
		{ID: "doc-2", Status: models.StatusCompleted},
		{ID: "doc-3", Status: models.StatusFailed},
		{ID: "", Status: models.StatusPending},
	})
	waitFor(t, "session start", func() bool { return m.InFlight() == 1 })

	// repeat lists must not spawn duplicate sessions
	m.Reconcile([]Document{pending("doc-1")})
	m.Reconcile([]Document{pending("doc-1")})
	assert.Equal(t, 1, m.InFlight())
	waitFor(t, "single open", func() bool { return opener.openCount() == 1 })
	assert.Empty(t, notifier.resolutions())
}

func TestUnknownStatusKeepsSessionAlive(t *testing.T) {
	stream := newFakeStream(
		streamEvent{status: models.ProcessingStatus("reticulating")},
		streamEvent{status: models.StatusCompleted},
	)
	opener := &fakeOpener{scripts: []*fakeStream{stream}}
	notifier := &recordingNotifier{}
	m := New(opener, &fakePoller{}, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})

	waitFor(t, "resolution", func() bool { return len(notifier.resolutions()) == 1 })
	assert.Equal(t, models.StatusCompleted, notifier.resolutions()[0].status)
}

func TestStopTrackingIsSilent(t *testing.T) {
	opener := &fakeOpener{}
	notifier := &recordingNotifier{}
	m := New(opener, &fakePoller{}, notifier, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})
	waitFor(t, "session start", func() bool { return m.InFlight() == 1 })

	m.StopTracking("doc-1")
	assert.Equal(t, 0, m.InFlight())
	assert.Empty(t, notifier.resolutions())

	// untracked id is a no-op
	m.StopTracking("doc-1")
	m.StopTracking("never-seen")
}

func TestShutdownTearsDownAllSessions(t *testing.T) {
	opener := &fakeOpener{}
	notifier := &recordingNotifier{}
	m := New(opener, &fakePoller{}, notifier, time.Second)

	m.Reconcile([]Document{pending("doc-1"), pending("doc-2"), pending("doc-3")})
	waitFor(t, "sessions start", func() bool { return m.InFlight() == 3 })

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not drain sessions")
	}
	assert.Equal(t, 0, m.InFlight())
	assert.Empty(t, notifier.resolutions())

	// a late reconcile after shutdown must not revive anything
	m.Reconcile([]Document{pending("doc-4")})
	assert.Equal(t, 0, m.InFlight())
}

func TestSessionsReportsMode(t *testing.T) {
	opener := &fakeOpener{}
	m := New(opener, &fakePoller{}, &recordingNotifier{}, time.Second)
	defer m.Shutdown()

	m.Reconcile([]Document{pending("doc-1")})
	waitFor(t, "session start", func() bool { return m.InFlight() == 1 })

	sessions := m.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "doc-1", sessions[0].DocID)
	assert.Equal(t, ModeStreaming, sessions[0].Mode)
	assert.False(t, sessions[0].CreatedAt.IsZero())
}
