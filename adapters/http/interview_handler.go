package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	interviewuc "github.com/vidyamithra/backend/internal/application/usecase/interview"
	"github.com/vidyamithra/backend/internal/domain/interview"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type InterviewHandler struct {
	interviewUseCase *interviewuc.InterviewUseCase
}

func NewInterviewHandler(uc *interviewuc.InterviewUseCase) *InterviewHandler {
	return &InterviewHandler{interviewUseCase: uc}
}

func (h *InterviewHandler) CheckUnlock(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	level := roadmap.LevelName(c.Query("level"))
	if level == "" {
		level = roadmap.LevelBeginner
	}

	var roadmapID uuid.UUID
	if raw := c.Query("roadmap_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": "roadmap_id must be a valid UUID"})
			return
		}
		roadmapID = id
	}

	decision, err := h.interviewUseCase.CheckUnlock(c.Request.Context(), userID, roadmapID, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

type nextQuestionRequest struct {
	Position  string               `json:"position" binding:"required"`
	RoundType string               `json:"round_type"`
	History   []interview.Exchange `json:"history"`
}

func (h *InterviewHandler) NextQuestion(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	var req nextQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	question, err := h.interviewUseCase.NextQuestion(c.Request.Context(), req.Position, req.RoundType, req.History)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

type analyzeInterviewRequest struct {
	RoadmapID *uuid.UUID           `json:"roadmap_id"`
	Level     *string              `json:"level"`
	Position  string               `json:"position" binding:"required"`
	RoundType string               `json:"round_type"`
	Responses []interview.Exchange `json:"responses" binding:"required"`
}

func (h *InterviewHandler) Analyze(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req analyzeInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var level *roadmap.LevelName
	if req.Level != nil {
		l := roadmap.LevelName(*req.Level)
		level = &l
	}

	session, err := h.interviewUseCase.Analyze(c.Request.Context(), interviewuc.AnalyzeInput{
		UserID:    userID,
		RoadmapID: req.RoadmapID,
		Level:     level,
		Position:  req.Position,
		RoundType: req.RoundType,
		Responses: req.Responses,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	sessions, err := h.interviewUseCase.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
