package service

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/repository"
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

type fakeContentRepo struct {
	items       []*model.ContentItem
	fail        bool
	updated     map[uint64]string
	indexLookup int
}

func (f *fakeContentRepo) GetByID(_ context.Context, id uint64) (*model.ContentItem, error) {
	if f.fail {
		return nil, errStoreDown
	}
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeContentRepo) FindActiveByFingerprint(_ context.Context, fp string, excludeID *uint64) ([]*model.ContentItem, error) {
	f.indexLookup++
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]*model.ContentItem, 0)
	for _, it := range f.items {
		if it.Fingerprint == fp && it.Status == model.ContentStatusActive && (excludeID == nil || it.ID != *excludeID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListRecentActive(_ context.Context, limit int, excludeID *uint64) ([]*model.ContentItem, error) {
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]*model.ContentItem, 0)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		it := f.items[i]
		if it.Status == model.ContentStatusActive && (excludeID == nil || it.ID != *excludeID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListMissingFingerprint(_ context.Context, afterID uint64, limit int) ([]*model.ContentItem, error) {
	out := make([]*model.ContentItem, 0)
	for _, it := range f.items {
		if it.ID > afterID && it.Fingerprint == "" && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) UpdateFingerprint(_ context.Context, id uint64, fp string) error {
	if f.updated == nil {
		f.updated = make(map[uint64]string)
	}
	f.updated[id] = fp
	for _, it := range f.items {
		if it.ID == id {
			it.Fingerprint = fp
		}
	}
	return nil
}

type fakeChannelRepo struct {
	channels []*model.Channel
}

func (f *fakeChannelRepo) ListEligible(_ context.Context, platform string) ([]*model.Channel, error) {
	out := make([]*model.Channel, 0)
	for _, ch := range f.channels {
		if ch.IsConnected && ch.IsActive && (platform == "" || ch.Platform == platform) {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) CountEligible(ctx context.Context) (int64, error) {
	list, _ := f.ListEligible(ctx, "")
	return int64(len(list)), nil
}

type fakePostRepo struct {
	posts []*model.PublishedPost
	calls int
}

func (f *fakePostRepo) ListPosted(_ context.Context, platform string, since time.Time) ([]*model.PublishedPost, error) {
	f.calls++
	out := make([]*model.PublishedPost, 0)
	for _, p := range f.posts {
		if p.Status != model.PublishedPostStatusPosted || p.PublishedAt == nil || p.PublishedAt.Before(since) {
			continue
		}
		if platform != "" && p.Platform != platform {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// fakeStore 共享 worker 与任务，mu 模拟 worker 行锁
type fakeStore struct {
	mu      sync.Mutex
	workers map[string]*model.Worker
	order   []string
	jobs    map[string]*model.WorkerJob
	nextID  uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{workers: make(map[string]*model.Worker), jobs: make(map[string]*model.WorkerJob)}
}

type fakeWorkerRepo struct{ s *fakeStore }

func (f *fakeWorkerRepo) Create(_ context.Context, w *model.Worker) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.workers[w.WorkerID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.s.nextID++
	w.ID = f.s.nextID
	f.s.workers[w.WorkerID] = w
	f.s.order = append(f.s.order, w.WorkerID)
	return nil
}

func (f *fakeWorkerRepo) GetByWorkerID(_ context.Context, id string) (*model.Worker, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.workers[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWorkerRepo) List(_ context.Context, filter repository.WorkerFilter) ([]*model.Worker, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]*model.Worker, 0)
	for _, id := range f.s.order {
		w, ok := f.s.workers[id]
		if !ok {
			continue
		}
		if filter.Platform != "" && !w.Platforms.Contains(filter.Platform) {
			continue
		}
		if filter.Region != "" && w.Region != filter.Region {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		if filter.IsOnline != nil && w.IsOnline != *filter.IsOnline {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeWorkerRepo) Updates(_ context.Context, id string, fields map[string]interface{}) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.workers[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			w.Status = v.(model.WorkerStatus)
		case "is_online":
			w.IsOnline = v.(bool)
		case "is_enabled":
			w.IsEnabled = v.(bool)
		case "max_concurrent_jobs":
			w.MaxConcurrentJobs = v.(int)
		case "priority":
			w.Priority = v.(int)
		case "avg_response_time":
			w.AvgResponseTime = v.(int)
		case "last_ping_at":
			t := v.(time.Time)
			w.LastPingAt = &t
		case "name":
			w.Name = v.(string)
		case "description":
			w.Description = v.(string)
		case "endpoint_url":
			w.EndpointURL = v.(string)
		case "tags":
			w.Tags = v.(model.StringList)
		case "region":
			w.Region = v.(string)
		case "platforms":
			w.Platforms = v.(model.StringList)
		case "capabilities":
			w.Capabilities = v.(model.WorkerCapabilities)
		}
	}
	return nil
}

func (f *fakeWorkerRepo) Delete(_ context.Context, id string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.workers[id]; !ok {
		return 0, nil
	}
	delete(f.s.workers, id)
	return 1, nil
}

func (f *fakeWorkerRepo) MarkOfflineBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, w := range f.s.workers {
		if w.IsOnline && (w.LastPingAt == nil || w.LastPingAt.Before(cutoff)) {
			w.IsOnline = false
			n++
		}
	}
	return n, nil
}

func (f *fakeWorkerRepo) Counts(_ context.Context) (*repository.WorkerCounts, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := &repository.WorkerCounts{}
	for _, w := range f.s.workers {
		c.Total++
		if w.IsOnline {
			c.Online++
		}
		if w.Status == model.WorkerStatusActive {
			c.Active++
		}
	}
	return c, nil
}

type fakeJobRepo struct{ s *fakeStore }

func (f *fakeJobRepo) liveLocked(workerID string) int64 {
	var n int64
	for _, j := range f.s.jobs {
		if j.WorkerID == workerID && (j.Status == model.JobStatusAssigned || j.Status == model.JobStatusStarted) {
			n++
		}
	}
	return n
}

func (f *fakeJobRepo) Assign(_ context.Context, job *model.WorkerJob, check repository.AssignCheck) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.workers[job.WorkerID]
	if !ok {
		return check(nil, 0)
	}
	cp := *w
	if err := check(&cp, f.liveLocked(job.WorkerID)); err != nil {
		return err
	}
	if _, dup := f.s.jobs[job.JobID]; dup {
		return gorm.ErrDuplicatedKey
	}
	f.s.nextID++
	job.ID = f.s.nextID
	stored := *job
	f.s.jobs[job.JobID] = &stored
	at := job.AssignedAt
	w.LastJobAt = &at
	return nil
}

func (f *fakeJobRepo) Mutate(_ context.Context, jobID string, mutate repository.JobMutation) (*model.WorkerJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	j, ok := f.s.jobs[jobID]
	if !ok {
		return nil, mutate(nil)
	}
	cp := *j
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	f.s.jobs[jobID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeJobRepo) GetByJobID(_ context.Context, jobID string) (*model.WorkerJob, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	j, ok := f.s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) CountLive(_ context.Context, workerID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.liveLocked(workerID), nil
}

func (f *fakeJobRepo) CountByWorkerStatus(_ context.Context, ids []string) (map[string]repository.JobCounts, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make(map[string]repository.JobCounts, len(ids))
	for _, id := range ids {
		out[id] = repository.JobCounts{}
	}
	for _, j := range f.s.jobs {
		if c, ok := out[j.WorkerID]; ok {
			c[j.Status]++
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountByStatus(_ context.Context, workerID string) (repository.JobCounts, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := repository.JobCounts{}
	for _, j := range f.s.jobs {
		if workerID == "" || j.WorkerID == workerID {
			out[j.Status]++
		}
	}
	return out, nil
}
