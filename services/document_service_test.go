package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pdfchat_backend/models"
	"pdfchat_backend/monitor"
)

type fakeDocRepo struct {
	docs map[string]*models.DocumentMeta
}

func newFakeDocRepo(docs ...*models.DocumentMeta) *fakeDocRepo {
	r := &fakeDocRepo{docs: make(map[string]*models.DocumentMeta)}
	for _, d := range docs {
		r.docs[d.FileID] = d
	}
	return r
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.DocumentMeta) error {
	r.docs[doc.FileID] = doc
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, fileID string) (*models.DocumentMeta, error) {
	doc, ok := r.docs[fileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return doc, nil
}

func (r *fakeDocRepo) GetByHash(ctx context.Context, userID, fileHash string) (*models.DocumentMeta, error) {
	for _, d := range r.docs {
		if d.UserID == userID && d.FileHash == fileHash {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDocRepo) ListByUser(ctx context.Context, userID string) ([]*models.DocumentMeta, error) {
	var out []*models.DocumentMeta
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) ListNonTerminal(ctx context.Context) ([]*models.DocumentMeta, error) {
	var out []*models.DocumentMeta
	for _, d := range r.docs {
		if !d.Status.Terminal() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) UpdateStatus(ctx context.Context, fileID string, status models.ProcessingStatus, processingError string) error {
	doc, ok := r.docs[fileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	doc.Status = status
	doc.ProcessingError = processingError
	return nil
}

func (r *fakeDocRepo) UpdateRoot(ctx context.Context, fileID string, rootID string) error {
	doc, ok := r.docs[fileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	doc.Root = rootID
	return nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, fileID string) error {
	delete(r.docs, fileID)
	return nil
}

type fakeTracker struct {
	reconciled [][]monitor.Document
	stopped    []string
}

func (t *fakeTracker) Reconcile(docs []monitor.Document) {
	t.reconciled = append(t.reconciled, docs)
}

func (t *fakeTracker) StopTracking(docID string) {
	t.stopped = append(t.stopped, docID)
}

func (t *fakeTracker) InFlight() int { return 0 }

type mapCache struct {
	values map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]interface{})}
}

func (c *mapCache) GetCache(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) SetCache(key string, value interface{}, expiration time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *mapCache) DelCache(key string) error {
	delete(c.values, key)
	return nil
}

func (c *mapCache) GetOrLoad(key string, expiration time.Duration, loader func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := loader()
	if err != nil {
		return nil, err
	}
	c.values[key] = v
	return v, nil
}

type fakeEngine struct {
	started []string
	err     error
}

func (e *fakeEngine) StartProcessing(ctx context.Context, task *models.IngestTask) error {
	if e.err != nil {
		return e.err
	}
	e.started = append(e.started, task.DocID)
	return nil
}

func (e *fakeEngine) Query(ctx context.Context, query *models.QueryReq) (*models.QueryResp, error) {
	return &models.QueryResp{Answer: "ok"}, nil
}

func docServiceForTest(repo *fakeDocRepo, tracker *fakeTracker) *DocumentService {
	return NewDocumentService(repo, nil, nil, newMapCache(), &fakeEngine{}, tracker, 50*1024*1024)
}

func TestListReconcilesMonitor(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDocRepo(
		&models.DocumentMeta{FileID: "doc-1", UserID: "user-1", Status: models.StatusProcessing},
		&models.DocumentMeta{FileID: "doc-2", UserID: "user-1", Status: models.StatusCompleted},
		&models.DocumentMeta{FileID: "doc-3", UserID: "user-2", Status: models.StatusPending},
	)
	tracker := &fakeTracker{}
	svc := docServiceForTest(repo, tracker)

	resp, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	// the full list is handed over; the monitor itself skips terminal rows
	require.Len(t, tracker.reconciled, 1)
	assert.Len(t, tracker.reconciled[0], 2)
}

func TestStatusCachesTerminalOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDocRepo(
		&models.DocumentMeta{FileID: "doc-1", UserID: "user-1", Filename: "a.pdf", Status: models.StatusProcessing},
		&models.DocumentMeta{FileID: "doc-2", UserID: "user-1", Filename: "b.pdf", Status: models.StatusCompleted, PageCount: 12},
	)
	svc := docServiceForTest(repo, &fakeTracker{})

	live, err := svc.Status(ctx, "user-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, live.Status)

	done, err := svc.Status(ctx, "user-1", "doc-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, int32(12), done.PageCount)

	// terminal answer now comes from cache even if the row disappears
	delete(repo.docs, "doc-2")
	cached, err := svc.Status(ctx, "user-1", "doc-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, cached.Status)

	// the non-terminal one was never cached
	delete(repo.docs, "doc-1")
	_, err = svc.Status(ctx, "user-1", "doc-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStatusEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDocRepo(
		&models.DocumentMeta{FileID: "doc-1", UserID: "user-1", Status: models.StatusProcessing},
	)
	svc := docServiceForTest(repo, &fakeTracker{})

	_, err := svc.Status(ctx, "user-2", "doc-1")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUploadRejectsOversizeAndNonPDF(t *testing.T) {
	ctx := context.Background()
	svc := NewDocumentService(newFakeDocRepo(), nil, nil, newMapCache(), &fakeEngine{}, &fakeTracker{}, 8)

	_, err := svc.Upload(ctx, "user-1", "big.pdf", "application/pdf", make([]byte, 9))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, "user-1", "notes.txt", "text/plain", []byte("hi"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadDeduplicatesByHash(t *testing.T) {
	ctx := context.Background()
	content := []byte("pdf")
	sum := sha256.Sum256(content)
	existing := &models.DocumentMeta{
		FileID:   "doc-1",
		UserID:   "user-1",
		FileHash: hex.EncodeToString(sum[:]),
		Status:   models.StatusCompleted,
	}
	repo := newFakeDocRepo(existing)
	svc := docServiceForTest(repo, &fakeTracker{})

	resp, err := svc.Upload(ctx, "user-1", "again.pdf", "application/pdf", content)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "doc-1", resp.DocID)
}

func TestMonitorDocsConversion(t *testing.T) {
	docs := []*models.DocumentMeta{
		{FileID: "doc-1", Status: models.StatusPending},
		{FileID: "doc-2", Status: models.StatusFailed},
	}
	converted := MonitorDocs(docs)
	require.Len(t, converted, 2)
	assert.Equal(t, monitor.Document{ID: "doc-1", Status: models.StatusPending}, converted[0])
	assert.Equal(t, monitor.Document{ID: "doc-2", Status: models.StatusFailed}, converted[1])
}
