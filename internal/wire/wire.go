package wire

import (
	"Lighthouse/internal/api"
	"Lighthouse/internal/api/config"
	"Lighthouse/internal/api/handler"
	"Lighthouse/internal/job"
	"Lighthouse/internal/pkg/cron"
	"Lighthouse/internal/pkg/kafka"
	"Lighthouse/internal/pkg/probe"
	"Lighthouse/internal/pkg/security"
	"Lighthouse/internal/repository"
	"Lighthouse/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // 未配置 broker 时为 nil
}

func BuildApplication(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*ApplicationContainer, error) {
	// repository
	contentRepo := repository.NewContentRepo(db)
	channelRepo := repository.NewChannelRepo(db)
	publishedPostRepo := repository.NewPublishedPostRepo(db)
	workerRepo := repository.NewWorkerRepo(db)
	workerJobRepo := repository.NewWorkerJobRepo(db)
	healthCheckRepo := repository.NewHealthCheckRepo(rdb)
	analyticsCacheRepo := repository.NewAnalyticsCacheRepo(rdb)

	tokens := security.NewTokenManager(cfg.Worker.JWTSecret, time.Duration(cfg.Worker.TokenTTL)*time.Hour)

	// service
	duplicateService := service.NewDuplicateService(contentRepo)
	fanpageMatchService := service.NewFanpageMatchService(channelRepo)
	postingTimeService := service.NewPostingTimeService(
		publishedPostRepo,
		analyticsCacheRepo,
		cfg.Analytics.DefaultTimezone,
		time.Duration(cfg.Analytics.CacheTTL)*time.Second,
	)
	workerService := service.NewWorkerService(
		workerRepo,
		workerJobRepo,
		healthCheckRepo,
		tokens,
		time.Duration(cfg.Worker.OfflineTimeout)*time.Second,
	)

	handlers := &api.HandlersGroup{
		DuplicateHandler:    handler.NewDuplicateHandler(duplicateService),
		FanpageMatchHandler: handler.NewFanpageMatchHandler(fanpageMatchService),
		PostingTimeHandler:  handler.NewPostingTimeHandler(postingTimeService),
		WorkerHandler:       handler.NewWorkerHandler(workerService),
	}

	router := api.SetupRouter(handlers, tokens, cfg.Server.AllowOrigins)

	// 定时任务
	prober := probe.NewProber(time.Duration(cfg.Worker.ProbeTimeout) * time.Second)
	cronMgr := cron.NewCronManager(
		cron.Specs{
			OfflineSweep:        cfg.Worker.SweepSpec,
			WorkerProbe:         cfg.Worker.ProbeSpec,
			FingerprintBackfill: cfg.Analytics.BackfillSpec,
		},
		job.NewWorkerOfflineJob(workerService),
		job.NewWorkerProbeJob(workerService, prober),
		job.NewFingerprintBackfillJob(duplicateService, cfg.Analytics.BackfillBatch),
	)

	var kafkaMgr *kafka.ConsumerManager
	if len(cfg.Kafka.Brokers) > 0 {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, duplicateService, workerService)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("kafka brokers not configured, consumers disabled")
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
	}, nil
}
