package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	learninguc "github.com/vidyamithra/backend/internal/application/usecase/learning"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type LearningHandler struct {
	learningUseCase *learninguc.LearningUseCase
}

func NewLearningHandler(uc *learninguc.LearningUseCase) *LearningHandler {
	return &LearningHandler{learningUseCase: uc}
}

func (h *LearningHandler) Resources(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}
	skill := c.Query("skill")
	level := roadmap.LevelName(c.DefaultQuery("level", string(roadmap.LevelBeginner)))

	resources, err := h.learningUseCase.Resources(c.Request.Context(), skill, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

type refreshResourcesRequest struct {
	Skill string `json:"skill" binding:"required"`
	Level string `json:"level"`
}

func (h *LearningHandler) Refresh(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	var req refreshResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	level := roadmap.LevelName(req.Level)
	if level == "" {
		level = roadmap.LevelBeginner
	}

	resources, err := h.learningUseCase.Refresh(c.Request.Context(), req.Skill, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}
