package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	roadmapuc "github.com/vidyamithra/backend/internal/application/usecase/roadmap"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type RoadmapHandler struct {
	generate *roadmapuc.GenerateRoadmapUseCase
	get      *roadmapuc.GetRoadmapUseCase
	status   *roadmapuc.SkillStatusUseCase
}

func NewRoadmapHandler(
	generate *roadmapuc.GenerateRoadmapUseCase,
	get *roadmapuc.GetRoadmapUseCase,
	status *roadmapuc.SkillStatusUseCase,
) *RoadmapHandler {
	return &RoadmapHandler{generate: generate, get: get, status: status}
}

type generateRoadmapRequest struct {
	TargetRole    string   `json:"target_role" binding:"required"`
	CurrentSkills []string `json:"current_skills"`
	SkillGaps     []string `json:"skill_gaps"`
}

func (h *RoadmapHandler) Generate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req generateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rm, err := h.generate.Execute(c.Request.Context(), roadmapuc.GenerateInput{
		UserID:        userID,
		TargetRole:    req.TargetRole,
		CurrentSkills: req.CurrentSkills,
		SkillGaps:     req.SkillGaps,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rm)
}

func (h *RoadmapHandler) GetActive(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	rm, err := h.get.Active(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rm)
}

type updateSkillStatusRequest struct {
	Status roadmap.SkillStatus `json:"status" binding:"required"`
}

func (h *RoadmapHandler) UpdateSkillStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap id"})
		return
	}

	var req updateSkillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rm, unlocked, err := h.status.UpdateSkillStatus(c.Request.Context(), userID, roadmapID, c.Param("skillId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roadmap":         rm,
		"unlocked_skills": unlocked,
	})
}

func (h *RoadmapHandler) SyncSkillStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap id"})
		return
	}

	rm, unlocked, err := h.status.SyncSkillStatus(c.Request.Context(), userID, roadmapID, c.Param("skillId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roadmap":         rm,
		"unlocked_skills": unlocked,
	})
}
