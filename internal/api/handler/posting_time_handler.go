package handler

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/service"

	"github.com/gin-gonic/gin"
)

type PostingTimeHandler struct {
	postingTimeSvc service.PostingTimeService
}

func NewPostingTimeHandler(postingTimeSvc service.PostingTimeService) *PostingTimeHandler {
	return &PostingTimeHandler{
		postingTimeSvc: postingTimeSvc,
	}
}

func (s *PostingTimeHandler) BestTimes(c *gin.Context) {
	var query dto.BestTimesQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postingTimeSvc.GetBestPostingTimes(c.Request.Context(), query.Platform, query.TopN, query.DaysBack, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostingTimeHandler) Patterns(c *gin.Context) {
	var query dto.PatternsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postingTimeSvc.AnalyzePostingPatterns(c.Request.Context(), query.Platform, query.MinPosts, query.DaysBack, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostingTimeHandler) Heatmap(c *gin.Context) {
	var query dto.HeatmapQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postingTimeSvc.GetEngagementHeatmap(c.Request.Context(), query.Platform, query.DaysBack, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostingTimeHandler) PlatformStats(c *gin.Context) {
	var query dto.PlatformStatsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.postingTimeSvc.GetPlatformStatistics(c.Request.Context(), query.DaysBack, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
