package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	progressuc "github.com/vidyamithra/backend/internal/application/usecase/progress"
)

type ProgressHandler struct {
	progressUseCase *progressuc.ProgressUseCase
}

func NewProgressHandler(uc *progressuc.ProgressUseCase) *ProgressHandler {
	return &ProgressHandler{progressUseCase: uc}
}

func (h *ProgressHandler) Snapshot(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.progressUseCase.ComputeSnapshot(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *ProgressHandler) History(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	snapshots, err := h.progressUseCase.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}
