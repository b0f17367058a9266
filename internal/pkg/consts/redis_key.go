package consts

const (
	WorkerHealthKey     = "worker:health:"
	PostingBestTimesKey = "analytics:best_times:"
)

const (
	WorkerOfflineJobLock    = "lock:job:worker_offline"
	WorkerProbeJobLock      = "lock:job:worker_probe"
	FingerprintBackfillLock = "lock:job:fingerprint_backfill"
)
