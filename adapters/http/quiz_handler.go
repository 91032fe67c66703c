package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	quizuc "github.com/vidyamithra/backend/internal/application/usecase/quiz"
	"github.com/vidyamithra/backend/internal/domain/quiz"
	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

type QuizHandler struct {
	quizUseCase *quizuc.QuizUseCase
}

func NewQuizHandler(uc *quizuc.QuizUseCase) *QuizHandler {
	return &QuizHandler{quizUseCase: uc}
}

type generateQuizRequest struct {
	SkillID   string `json:"skill_id"`
	SkillName string `json:"skill_name" binding:"required"`
	Level     string `json:"level" binding:"required"`
	Count     int    `json:"num_questions"`
}

func (h *QuizHandler) Generate(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	generated, err := h.quizUseCase.GenerateSkillQuiz(
		c.Request.Context(), req.SkillID, req.SkillName, roadmap.LevelName(req.Level), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

type submitQuizRequest struct {
	QuizID    string        `json:"quiz_id"`
	RoadmapID *uuid.UUID    `json:"roadmap_id"`
	SkillID   string        `json:"skill_id" binding:"required"`
	SkillName string        `json:"skill_name"`
	Level     string        `json:"level" binding:"required"`
	Answers   []quiz.Answer `json:"answers" binding:"required"`
}

func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.quizUseCase.Submit(c.Request.Context(), quizuc.SubmitInput{
		UserID:    userID,
		QuizID:    req.QuizID,
		RoadmapID: req.RoadmapID,
		SkillID:   req.SkillID,
		SkillName: req.SkillName,
		Level:     roadmap.LevelName(req.Level),
		Answers:   req.Answers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) History(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	attempts, err := h.quizUseCase.History(c.Request.Context(), userID, c.Query("skill_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
