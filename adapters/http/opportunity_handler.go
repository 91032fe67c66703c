package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	opportunityuc "github.com/vidyamithra/backend/internal/application/usecase/opportunity"
	"github.com/vidyamithra/backend/internal/domain/opportunity"
)

type OpportunityHandler struct {
	opportunityUseCase *opportunityuc.OpportunityUseCase
}

func NewOpportunityHandler(uc *opportunityuc.OpportunityUseCase) *OpportunityHandler {
	return &OpportunityHandler{opportunityUseCase: uc}
}

type generateOpportunitiesRequest struct {
	TargetRole string   `json:"target_role" binding:"required"`
	Skills     []string `json:"skills"`
	Level      string   `json:"level"`
	Types      []string `json:"types"`
}

func (h *OpportunityHandler) Generate(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	var req generateOpportunitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	types := make([]opportunity.Type, len(req.Types))
	for i, t := range req.Types {
		types[i] = opportunity.Type(t)
	}

	saved, err := h.opportunityUseCase.Generate(c.Request.Context(), opportunityuc.GenerateInput{
		TargetRole: req.TargetRole,
		Skills:     req.Skills,
		Level:      req.Level,
		Types:      types,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": saved, "new_count": len(saved)})
}

func (h *OpportunityHandler) List(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	opportunities, err := h.opportunityUseCase.List(c.Request.Context(), opportunity.Filter{
		Type:   opportunity.Type(c.Query("type")),
		Level:  c.Query("level"),
		Source: c.Query("source"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}
