package handler

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DuplicateHandler struct {
	duplicateSvc service.DuplicateService
}

func NewDuplicateHandler(duplicateSvc service.DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{
		duplicateSvc: duplicateSvc,
	}
}

func (s *DuplicateHandler) Check(c *gin.Context) {
	var req dto.DuplicateCheckDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.duplicateSvc.CheckForDuplicates(c.Request.Context(), req.Text, req.ExcludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DuplicateHandler) UpdateFingerprint(c *gin.Context) {
	contentID, err := strconv.ParseUint(c.Param("content_id"), 10, 64)
	if err != nil {
		response.Error(c, service.NewValidationError(service.ErrParamInvalid, "content_id", "must be a positive integer"))
		return
	}

	var req dto.UpdateFingerprintDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.duplicateSvc.UpdateFingerprint(c.Request.Context(), contentID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *DuplicateHandler) Similarity(c *gin.Context) {
	var req dto.SimilarityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.duplicateSvc.CalculateSimilarity(req.Text1, req.Text2))
}
