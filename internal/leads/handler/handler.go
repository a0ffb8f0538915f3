package handler

import (
	"fmt"
	"net/http"
	"time"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/settings"
	"filmleads_backend/platform/httpkit"
	"filmleads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	maxImportBytes = 16 << 20
)

// ProposalPDFRenderer renders a stored proposal quote as a PDF.
type ProposalPDFRenderer interface {
	ProposalPDF(lead domain.Lead, quote domain.Quote, s *settings.Settings) ([]byte, error)
}

type Handler struct {
	svc *service.Service
	val *validator.Validator
	pdf ProposalPDFRenderer
}

func New(svc *service.Service, val *validator.Validator, pdf ProposalPDFRenderer) *Handler {
	return &Handler{svc: svc, val: val, pdf: pdf}
}

// RegisterRoutes mounts every lead desk route on the /api/v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.GET("", h.List)
	leads.POST("", h.Create)
	leads.GET("/:id", h.Get)
	leads.GET("/:id/tasks", h.ListTasks)
	leads.GET("/:id/quotes", h.ListQuotes)
	leads.GET("/:id/messages", h.ListMessages)
	leads.POST("/:id/follow-ups", h.CreateFollowUps)
	leads.POST("/:id/ballpark", h.GenerateBallpark)
	leads.POST("/:id/proposal", h.GenerateProposal)
	leads.POST("/:id/draft-reply", h.DraftReply)
	leads.POST("/:id/preview", h.Preview)

	quotes := rg.Group("/quotes")
	quotes.GET("/:id/document", h.QuoteDocument)
	quotes.GET("/:id/pdf", h.QuotePDF)

	rg.POST("/messages/:id/send", h.SendMessage)

	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.PutSettings)
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}

func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.ListLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.CreateLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) Get(c *gin.Context) {
	lead, err := h.svc.GetLead(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) ListTasks(c *gin.Context) {
	res, err := h.svc.ListTasks(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) ListQuotes(c *gin.Context) {
	res, err := h.svc.ListQuotes(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) ListMessages(c *gin.Context) {
	res, err := h.svc.ListMessages(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) CreateFollowUps(c *gin.Context) {
	res, err := h.svc.CreateDefaultFollowUps(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) GenerateBallpark(c *gin.Context) {
	quote, err := h.svc.GenerateBallparkQuote(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, quote)
}

func (h *Handler) GenerateProposal(c *gin.Context) {
	quote, err := h.svc.GenerateProposal(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, quote)
}

func (h *Handler) DraftReply(c *gin.Context) {
	res, err := h.svc.DraftReply(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, res)
}

func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.PreviewQuote(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

// QuoteDocument serves a proposal as HTML and a ballpark as plain text.
func (h *Handler) QuoteDocument(c *gin.Context) {
	quote, _, err := h.svc.GetQuote(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	if quote.Kind == domain.QuoteProposal {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(quote.Outputs.ProposalHTML))
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(quote.Outputs.Text))
}

func (h *Handler) QuotePDF(c *gin.Context) {
	if h.pdf == nil {
		httpkit.Error(c, http.StatusNotImplemented, "pdf rendering is not configured", nil)
		return
	}
	ctx := c.Request.Context()

	quote, lead, err := h.svc.GetQuote(ctx, c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	if quote.Kind != domain.QuoteProposal {
		httpkit.Error(c, http.StatusUnprocessableEntity, "quote is not a proposal", nil)
		return
	}
	current, err := h.svc.Settings(ctx)
	if httpkit.HandleError(c, err) {
		return
	}

	body, err := h.pdf.ProposalPDF(lead, quote, current.Settings)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", quote.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (h *Handler) SendMessage(c *gin.Context) {
	msg, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, msg)
}

func (h *Handler) GetSettings(c *gin.Context) {
	res, err := h.svc.Settings(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) PutSettings(c *gin.Context) {
	var next settings.Settings
	if err := c.ShouldBindJSON(&next); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	res, err := h.svc.ApplySettings(c.Request.Context(), settings.Merge(settings.Default(), &next))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}

func (h *Handler) Export(c *gin.Context) {
	raw, err := h.svc.Export(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	name := "window-film-workflow-db-" + time.Now().UTC().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	raw, err := c.GetRawData()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	res, err := h.svc.Import(c.Request.Context(), raw)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, res)
}
