package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resumeuc "github.com/vidyamithra/backend/internal/application/usecase/resume"
)

type ResumeHandler struct {
	resumeUseCase *resumeuc.ResumeUseCase
}

func NewResumeHandler(uc *resumeuc.ResumeUseCase) *ResumeHandler {
	return &ResumeHandler{resumeUseCase: uc}
}

type analyzeResumeRequest struct {
	ResumeText string `json:"resume_text" binding:"required"`
	TargetRole string `json:"target_role" binding:"required"`
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req analyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	analysis, err := h.resumeUseCase.Analyze(c.Request.Context(), userID, req.ResumeText, req.TargetRole)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
