package api

import (
	"Lighthouse/internal/api/middleware"
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/pkg/security"
	"Lighthouse/internal/pkg/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, tokens *security.TokenManager, allowOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})
	util.RegisterTagNames()

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/metrics"))
	r.Use(middleware.CORSMiddleware(allowOrigins))
	logger.SetupGin(r)

	r.GET("/metrics", metrics.Handler())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.POST("/duplicates/check", group.DuplicateHandler.Check)
			contentGroup.PUT("/:content_id/fingerprint", group.DuplicateHandler.UpdateFingerprint)
			contentGroup.POST("/similarity", group.DuplicateHandler.Similarity)
		}

		matchGroup := apiGroup.Group("/fanpage-matching")
		{
			matchGroup.POST("/match", group.FanpageMatchHandler.Match)
			matchGroup.POST("/summary", group.FanpageMatchHandler.Summary)
		}

		postingGroup := apiGroup.Group("/posting-times")
		{
			postingGroup.GET("/best", group.PostingTimeHandler.BestTimes)
			postingGroup.GET("/patterns", group.PostingTimeHandler.Patterns)
			postingGroup.GET("/heatmap", group.PostingTimeHandler.Heatmap)
			postingGroup.GET("/platforms", group.PostingTimeHandler.PlatformStats)
		}

		workerGroup := apiGroup.Group("/workers")
		{
			workerGroup.POST("", group.WorkerHandler.Register)
			workerGroup.GET("", group.WorkerHandler.List)
			workerGroup.GET("/stats", group.WorkerHandler.Stats)
			workerGroup.POST("/dispatch", group.WorkerHandler.Dispatch)
			workerGroup.GET("/:worker_id", group.WorkerHandler.Get)
			workerGroup.PUT("/:worker_id", group.WorkerHandler.Update)
			workerGroup.DELETE("/:worker_id", group.WorkerHandler.Deregister)
			workerGroup.GET("/:worker_id/load", group.WorkerHandler.Load)
			workerGroup.GET("/:worker_id/metrics", group.WorkerHandler.Metrics)
			workerGroup.GET("/:worker_id/health", group.WorkerHandler.HealthHistory)
			workerGroup.POST("/:worker_id/jobs", group.WorkerHandler.AssignJob)

			// worker 进程自身调用，需携带注册时签发的 token
			authGroup := workerGroup.Group("")
			authGroup.Use(middleware.WorkerAuthMiddleware(tokens))
			{
				authGroup.POST("/:worker_id/heartbeat", group.WorkerHandler.Heartbeat)
			}
		}

		jobGroup := apiGroup.Group("/jobs")
		jobGroup.Use(middleware.WorkerAuthMiddleware(tokens))
		{
			jobGroup.PUT("/:job_id", group.WorkerHandler.UpdateJob)
		}
	}

	return r
}
