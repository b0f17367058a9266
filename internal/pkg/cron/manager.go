package cron

import (
	"Lighthouse/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// Specs 各定时任务的 cron 表达式（含秒）
type Specs struct {
	OfflineSweep        string
	WorkerProbe         string
	FingerprintBackfill string
}

type Manager struct {
	engine         *cron.Cron
	specs          Specs
	offlineJob     *job.WorkerOfflineJob
	probeJob       *job.WorkerProbeJob
	fingerprintJob *job.FingerprintBackfillJob
}

func NewCronManager(
	specs Specs,
	offlineJob *job.WorkerOfflineJob,
	probeJob *job.WorkerProbeJob,
	fingerprintJob *job.FingerprintBackfillJob,
) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		specs:          specs,
		offlineJob:     offlineJob,
		probeJob:       probeJob,
		fingerprintJob: fingerprintJob,
	}
}

// RegisterJobs 注册定时任务，表达式为空的任务不启用
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"worker_offline", s.specs.OfflineSweep, s.offlineJob},
		{"worker_probe", s.specs.WorkerProbe, s.probeJob},
		{"fingerprint_backfill", s.specs.FingerprintBackfill, s.fingerprintJob},
	}
	for _, j := range jobs {
		if j.spec == "" {
			log.Warn("cron job disabled", "job", j.name)
			continue
		}
		if _, err := s.engine.AddJob(j.spec, j.job); err != nil {
			return err
		}
		log.Info("cron job registered", "job", j.name, "spec", j.spec)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
