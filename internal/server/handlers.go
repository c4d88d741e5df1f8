package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tally-dev/tally/internal/assistant"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/session"
)

type transactionRequest struct {
	Input string `json:"input" binding:"required"`
}

type insightRequest struct {
	Query string `json:"query"`
}

type goalRequest struct {
	Goal string `json:"goal" binding:"required"`
}

type resultResponse struct {
	Status  assistant.Status `json:"status"`
	Code    string           `json:"code,omitempty"`
	Message string           `json:"message"`
}

func (s *Server) session(c *gin.Context) session.Session {
	return session.New(GetUserID(c), GetToken(c), s.clock)
}

func (s *Server) respond(c *gin.Context, okStatus int, res assistant.Result) {
	c.JSON(httpStatus(okStatus, res), resultResponse{Status: res.Status, Code: res.Code, Message: res.String()})
}

// httpStatus maps a result to a response code. Non-failures use okStatus.
func httpStatus(okStatus int, res assistant.Result) int {
	if res.Status != assistant.StatusFailure {
		return okStatus
	}
	switch res.Code {
	case assistant.CodeUnauthenticated:
		return http.StatusUnauthorized
	case assistant.CodeOverloaded:
		return http.StatusServiceUnavailable
	case assistant.CodeFetch, assistant.CodeStore, assistant.CodeGoal:
		return http.StatusBadGateway
	case assistant.CodeUnexpected, assistant.CodeInsight:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) addTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, http.StatusCreated, s.svc.AddTransaction(c.Request.Context(), s.session(c), req.Input))
}

func (s *Server) financialInsight(c *gin.Context) {
	var req insightRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	s.respond(c, http.StatusOK, s.svc.FinancialInsight(c.Request.Context(), s.session(c), req.Query))
}

func (s *Server) optimizeBudget(c *gin.Context) {
	s.respond(c, http.StatusOK, s.svc.OptimizeBudget(c.Request.Context(), s.session(c)))
}

func (s *Server) trackGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, http.StatusOK, s.svc.TrackGoal(c.Request.Context(), s.session(c), req.Goal))
}

// importStatement reads a bank CSV from the request body. The format query
// parameter selects the parser.
func (s *Server) importStatement(c *gin.Context) {
	format := c.DefaultQuery("format", "chase")
	p := s.registry.Get(format)
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown import format: " + format, "formats": s.registry.Formats()})
		return
	}
	txns, err := p.Parse(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, http.StatusOK, s.svc.Import(c.Request.Context(), s.session(c), importer.Drafts(txns)))
}

func (s *Server) classify(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	r := s.svc.Classify(title)
	c.JSON(http.StatusOK, gin.H{"tag": r.Tag, "score": r.Score, "method": r.Method})
}
