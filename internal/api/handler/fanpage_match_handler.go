package handler

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/service"

	"github.com/gin-gonic/gin"
)

type FanpageMatchHandler struct {
	matchSvc service.FanpageMatchService
}

func NewFanpageMatchHandler(matchSvc service.FanpageMatchService) *FanpageMatchHandler {
	return &FanpageMatchHandler{
		matchSvc: matchSvc,
	}
}

// Match minScore 缺省为 0，limit 缺省为 50，显式 0 表示不限制
func (s *FanpageMatchHandler) Match(c *gin.Context) {
	var req dto.FanpageMatchDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	minScore, limit := 0, -1
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if req.Limit != nil {
		limit = *req.Limit
	}

	results, err := s.matchSvc.FindMatchingFanpages(c.Request.Context(), req.ContentTagIDs, req.Platform, minScore, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, results)
}

func (s *FanpageMatchHandler) Summary(c *gin.Context) {
	var req dto.MatchingSummaryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	summary, err := s.matchSvc.GetMatchingSummary(c.Request.Context(), req.ContentTagIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}
