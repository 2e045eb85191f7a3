// Package server exposes the claim calculator, the generation pipeline and
// the renderer over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"labor_claim_generator/calc"
	"labor_claim_generator/generator"
	"labor_claim_generator/render"
	"labor_claim_generator/template"
)

// Generator runs the drafting pipeline. Satisfied by *generator.Pipeline;
// narrowed to an interface so handlers are testable with a stub.
type Generator interface {
	Run(ctx context.Context, req generator.GenerationRequest, progress generator.ProgressFunc) (*generator.DocumentDraft, error)
}

// Server wires the HTTP routes. FirmPatterns and LegalCitations are the
// static corpora forwarded to the drafter prompt.
type Server struct {
	gen            Generator
	firmPatterns   string
	legalCitations string
}

func New(gen Generator, firmPatterns, legalCitations string) *Server {
	return &Server{gen: gen, firmPatterns: firmPatterns, legalCitations: legalCitations}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/calculate", s.handleCalculate)
		api.POST("/generate", s.handleGenerate)
		api.POST("/render", s.handleRender)
	}
	return r
}

func (s *Server) handleCalculate(c *gin.Context) {
	var in calc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := calc.Compute(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GenerateRequest carries the intake form: identity fields, the calculation
// inputs and the optional free-text narrative.
type GenerateRequest struct {
	Case     generator.CaseData `json:"case"`
	Calc     calc.Input         `json:"calculation"`
	Gender   generator.Gender   `json:"gender"`
	RawFacts string             `json:"raw_facts"`
	Meta     render.Meta        `json:"meta"`
}

// GenerateResponse returns the merged draft alongside both rendered forms.
// Source reports which path produced the draft.
type GenerateResponse struct {
	Source   string                   `json:"source"`
	Draft    *generator.DocumentDraft `json:"draft"`
	Calc     *calc.Result             `json:"calculation"`
	Markdown string                   `json:"markdown"`
	HTML     string                   `json:"html"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Gender == "" {
		req.Gender = generator.GenderMale
	}

	res, err := calc.Compute(req.Calc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genReq := s.buildGenerationRequest(req, res)

	requestID := GetRequestID(c)
	draft, err := s.gen.Run(c.Request.Context(), genReq, func(stage, message string) {
		slog.Debug("generation progress", "request_id", requestID, "stage", stage, "message", message)
	})
	var budgetErr *generator.BudgetExceededError
	if errors.As(err, &budgetErr) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": budgetErr.Error()})
		return
	}

	source := "pipeline"
	if draft == nil {
		// Total pipeline failure: the deterministic template path always
		// produces a document.
		slog.Warn("pipeline produced no draft, using template", "request_id", requestID)
		draft = template.Draft(genReq)
		source = "template"
	}

	md := render.Markdown(draft, genReq.Case, req.Meta)
	html, err := render.HTML(md)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Source:   source,
		Draft:    draft,
		Calc:     res,
		Markdown: md,
		HTML:     html,
	})
}

// RenderRequest re-renders an already generated (possibly hand-edited) draft.
type RenderRequest struct {
	Draft *generator.DocumentDraft `json:"draft" binding:"required"`
	Case  generator.CaseData       `json:"case"`
	Meta  render.Meta              `json:"meta"`
}

func (s *Server) handleRender(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Draft == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	md := render.Markdown(req.Draft, req.Case, req.Meta)
	html, err := render.HTML(md)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"markdown": md, "html": html})
}

// buildGenerationRequest folds the calculation result into the structured case
// data and converts computed claims into authoritative amounts.
func (s *Server) buildGenerationRequest(req GenerateRequest, res *calc.Result) generator.GenerationRequest {
	cd := req.Case
	cd.StartDate = req.Calc.StartDate
	cd.EndDate = req.Calc.EndDate
	cd.BaseSalary = req.Calc.BaseSalary
	cd.Commissions = req.Calc.Commissions
	cd.WorkDaysPerWeek = req.Calc.WorkDaysPerWeek
	cd.TerminationType = req.Calc.TerminationType
	cd.TotalMonths = res.Duration.TotalMonths
	cd.DecimalYears = res.Duration.DecimalYears
	cd.DeterminingSalary = res.DeterminingSalary
	cd.HourlyRate = res.HourlyRate
	cd.DailyRate = res.DailyRate

	amounts := make(map[string]generator.AuthoritativeAmount, len(res.Claims))
	for id, claim := range res.Claims {
		amounts[id] = generator.AuthoritativeAmount{
			Name:    claim.Name,
			Amount:  claim.Amount,
			Formula: claim.Formula,
		}
	}

	return generator.GenerationRequest{
		RawFacts:       req.RawFacts,
		Case:           cd,
		Selected:       res.Order,
		Amounts:        amounts,
		Total:          res.Total,
		Gender:         req.Gender,
		FirmPatterns:   s.firmPatterns,
		LegalCitations: s.legalCitations,
	}
}
