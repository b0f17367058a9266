package handler

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/api/middleware"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/security"
	"Lighthouse/internal/pkg/util"
	"Lighthouse/internal/service"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	util.RegisterTagNames()
	return gin.New()
}

func do(t *testing.T, r http.Handler, method, path, body string, header ...string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func fieldsOf(t *testing.T, env envelope) map[string]string {
	t.Helper()
	var fields []dto.FieldErrorDTO
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		t.Fatalf("decode field errors: %v (%s)", err, env.Data)
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}

type stubDuplicateService struct {
	service.DuplicateService
	checkErr error
	gotText  string
	gotID    uint64
	gotExcl  *uint64
}

func (s *stubDuplicateService) CheckForDuplicates(_ context.Context, text string, excludeID *uint64) (*dto.DuplicateCheckResultDTO, error) {
	s.gotText, s.gotExcl = text, excludeID
	if s.checkErr != nil {
		return nil, s.checkErr
	}
	return &dto.DuplicateCheckResultDTO{IsDuplicate: true, ExactMatch: true, HighestSimilarity: 1, Matches: []*dto.DuplicateMatchDTO{}}, nil
}

func (s *stubDuplicateService) UpdateFingerprint(_ context.Context, contentID uint64, text string) (*dto.FingerprintDTO, error) {
	s.gotID, s.gotText = contentID, text
	return &dto.FingerprintDTO{ContentID: contentID, Fingerprint: "fp"}, nil
}

func TestDuplicateCheck(t *testing.T) {
	svc := &stubDuplicateService{}
	r := newEngine()
	h := NewDuplicateHandler(svc)
	r.POST("/check", h.Check)

	env := do(t, r, http.MethodPost, "/check", `{"text":"Khuyến mãi táo Fuji giảm 20%","excludeId":7}`)
	if env.Code != 200 {
		t.Fatalf("code = %d, message = %s", env.Code, env.Message)
	}
	var res dto.DuplicateCheckResultDTO
	if err := json.Unmarshal(env.Data, &res); err != nil || !res.ExactMatch || res.HighestSimilarity != 1 {
		t.Fatalf("unexpected data %s", env.Data)
	}
	if svc.gotExcl == nil || *svc.gotExcl != 7 {
		t.Fatalf("excludeId not forwarded: %v", svc.gotExcl)
	}
}

func TestDuplicateCheckValidation(t *testing.T) {
	r := newEngine()
	r.POST("/check", NewDuplicateHandler(&stubDuplicateService{}).Check)

	env := do(t, r, http.MethodPost, "/check", `{"excludeId":7}`)
	if env.Code != 400 {
		t.Fatalf("code = %d, want 400", env.Code)
	}
	if fields := fieldsOf(t, env); fields["text"] != "is required" {
		t.Fatalf("unexpected field errors %v", fields)
	}

	env = do(t, r, http.MethodPost, "/check", `{"text":`)
	if env.Code != 400 {
		t.Fatalf("malformed json: code = %d, want 400", env.Code)
	}
}

func TestDuplicateCheckRetrievalFailure(t *testing.T) {
	svc := &stubDuplicateService{checkErr: errors.Wrap(service.ErrContentRetrieval, "dial tcp: connection refused")}
	r := newEngine()
	r.POST("/check", NewDuplicateHandler(svc).Check)

	env := do(t, r, http.MethodPost, "/check", `{"text":"hello"}`)
	if env.Code != 500 || env.Message != service.ErrContentRetrieval.Error() {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestUpdateFingerprintPathParam(t *testing.T) {
	svc := &stubDuplicateService{}
	r := newEngine()
	r.PUT("/content/:content_id/fingerprint", NewDuplicateHandler(svc).UpdateFingerprint)

	env := do(t, r, http.MethodPut, "/content/abc/fingerprint", `{"text":"x"}`)
	if env.Code != 400 {
		t.Fatalf("code = %d, want 400", env.Code)
	}
	if fields := fieldsOf(t, env); fields["content_id"] == "" {
		t.Fatalf("missing content_id field error: %v", fields)
	}

	env = do(t, r, http.MethodPut, "/content/42/fingerprint", `{"text":"new body"}`)
	if env.Code != 200 || svc.gotID != 42 || svc.gotText != "new body" {
		t.Fatalf("unexpected call: code=%d id=%d text=%q", env.Code, svc.gotID, svc.gotText)
	}
}

type stubMatchService struct {
	service.FanpageMatchService
	minScore, limit int
	tags            []string
}

func (s *stubMatchService) FindMatchingFanpages(_ context.Context, tagIDs []string, _ string, minScore int, limit int) ([]*dto.FanpageMatchResultDTO, error) {
	s.tags, s.minScore, s.limit = tagIDs, minScore, limit
	return []*dto.FanpageMatchResultDTO{}, nil
}

func TestFanpageMatchDefaults(t *testing.T) {
	svc := &stubMatchService{}
	r := newEngine()
	r.POST("/match", NewFanpageMatchHandler(svc).Match)

	env := do(t, r, http.MethodPost, "/match", `{"contentTagIds":[]}`)
	if env.Code != 200 || svc.limit != -1 || svc.minScore != 0 || svc.tags == nil {
		t.Fatalf("defaults wrong: code=%d limit=%d min=%d tags=%v", env.Code, svc.limit, svc.minScore, svc.tags)
	}

	env = do(t, r, http.MethodPost, "/match", `{"contentTagIds":["food"],"limit":0,"minScore":-100}`)
	if env.Code != 200 || svc.limit != 0 || svc.minScore != -100 {
		t.Fatalf("explicit values wrong: code=%d limit=%d min=%d", env.Code, svc.limit, svc.minScore)
	}

	env = do(t, r, http.MethodPost, "/match", `{"platform":"myspace"}`)
	fields := fieldsOf(t, env)
	if env.Code != 400 || fields["contentTagIds"] == "" || fields["platform"] == "" {
		t.Fatalf("unexpected validation result %d %v", env.Code, fields)
	}
}

type stubPostingTimeService struct {
	service.PostingTimeService
}

func (s *stubPostingTimeService) GetBestPostingTimes(_ context.Context, _ string, _, _ int, timezone string) (*dto.BestTimesDTO, error) {
	if timezone == "Mars/Olympus" {
		return nil, service.NewValidationError(service.ErrInvalidTimezone, "timezone", "unknown time zone Mars/Olympus")
	}
	return &dto.BestTimesDTO{Timezone: timezone}, nil
}

func TestBestTimesInvalidTimezone(t *testing.T) {
	r := newEngine()
	r.GET("/best", NewPostingTimeHandler(&stubPostingTimeService{}).BestTimes)

	env := do(t, r, http.MethodGet, "/best?timezone=Mars/Olympus", "")
	if env.Code != 400 || env.Message != service.ErrInvalidTimezone.Error() {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if fields := fieldsOf(t, env); fields["timezone"] == "" {
		t.Fatalf("missing timezone field error: %v", fields)
	}

	env = do(t, r, http.MethodGet, "/best?topN=0&daysBack=400", "")
	if fields := fieldsOf(t, env); env.Code != 400 || fields["daysBack"] == "" {
		t.Fatalf("unexpected validation result %d %v", env.Code, fields)
	}
}

type stubWorkerService struct {
	service.WorkerService
	jobCaller string
	beatID    string
}

func (s *stubWorkerService) UpdateJob(_ context.Context, jobID string, callerWorkerID string, in *dto.UpdateJobDTO) (*dto.WorkerJobDTO, error) {
	s.jobCaller = callerWorkerID
	if jobID == "missing" {
		return nil, service.ErrJobNotFound
	}
	return &dto.WorkerJobDTO{JobID: jobID, WorkerID: callerWorkerID, Status: in.Status}, nil
}

func (s *stubWorkerService) RecordHealthCheck(_ context.Context, workerID string, in *dto.HealthCheckDTO) (*model.HealthCheck, error) {
	s.beatID = workerID
	return &model.HealthCheck{WorkerID: workerID, Status: model.HealthStatus(in.Status)}, nil
}

func (s *stubWorkerService) AssignJob(_ context.Context, _ string, _ *dto.AssignJobDTO) (*dto.WorkerJobDTO, error) {
	return nil, service.ErrWorkerAtCapacity
}

func newWorkerEngine(svc *stubWorkerService, tokens *security.TokenManager) *gin.Engine {
	r := newEngine()
	h := NewWorkerHandler(svc)
	r.POST("/workers/:worker_id/jobs", h.AssignJob)
	auth := r.Group("")
	auth.Use(middleware.WorkerAuthMiddleware(tokens))
	auth.PUT("/jobs/:job_id", h.UpdateJob)
	auth.POST("/workers/:worker_id/heartbeat", h.Heartbeat)
	return r
}

func TestUpdateJobRequiresWorkerToken(t *testing.T) {
	tokens := security.NewTokenManager("handler-test", time.Hour)
	svc := &stubWorkerService{}
	r := newWorkerEngine(svc, tokens)

	env := do(t, r, http.MethodPut, "/jobs/job-1", `{"status":"started"}`)
	if env.Code != 401 {
		t.Fatalf("code = %d, want 401", env.Code)
	}

	token, _, err := tokens.GenerateToken("w-1", []string{"facebook"}, "vn-south")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	env = do(t, r, http.MethodPut, "/jobs/job-1", `{"status":"started"}`, "Authorization", "Bearer "+token)
	if env.Code != 200 || svc.jobCaller != "w-1" {
		t.Fatalf("unexpected result code=%d caller=%q", env.Code, svc.jobCaller)
	}

	env = do(t, r, http.MethodPut, "/jobs/job-1", `{"status":"assigned"}`, "Authorization", "Bearer "+token)
	if fields := fieldsOf(t, env); env.Code != 400 || fields["status"] == "" {
		t.Fatalf("unexpected validation result %d %v", env.Code, fields)
	}

	env = do(t, r, http.MethodPut, "/jobs/missing", `{"status":"started"}`, "Authorization", "Bearer "+token)
	if env.Code != 404 {
		t.Fatalf("code = %d, want 404", env.Code)
	}
}

func TestHeartbeatWorkerMismatch(t *testing.T) {
	tokens := security.NewTokenManager("handler-test", time.Hour)
	svc := &stubWorkerService{}
	r := newWorkerEngine(svc, tokens)

	token, _, err := tokens.GenerateToken("w-1", []string{"facebook"}, "vn-south")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	env := do(t, r, http.MethodPost, "/workers/w-2/heartbeat", `{"status":"healthy"}`, "Authorization", "Bearer "+token)
	if env.Code != 401 || svc.beatID != "" {
		t.Fatalf("heartbeat for another worker accepted: code=%d", env.Code)
	}

	env = do(t, r, http.MethodPost, "/workers/w-1/heartbeat", `{"status":"healthy","responseTime":120}`, "Authorization", "Bearer "+token)
	if env.Code != 200 || svc.beatID != "w-1" {
		t.Fatalf("heartbeat rejected: code=%d message=%s", env.Code, env.Message)
	}
}

func TestAssignJobConflict(t *testing.T) {
	r := newWorkerEngine(&stubWorkerService{}, security.NewTokenManager("handler-test", time.Hour))

	env := do(t, r, http.MethodPost, "/workers/w-1/jobs", `{"platform":"facebook","jobType":"post_text"}`)
	if env.Code != 409 || env.Message != service.ErrWorkerAtCapacity.Error() {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
