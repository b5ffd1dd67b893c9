package phrases

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/generation"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/quota"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/pagination"
	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/response"
)

// Handler wires the phrase pipeline HTTP endpoints.
type Handler struct {
	orch   *Orchestrator
	store  *Store
	ledger *quota.Ledger
}

func NewHandler(orch *Orchestrator, store *Store, ledger *quota.Ledger) *Handler {
	return &Handler{orch: orch, store: store, ledger: ledger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, idemMW gin.HandlerFunc) {
	g := rg.Group("/phrases")
	g.GET("", h.listPhrases)
	g.GET("/quota", h.quotaStatus)
	g.GET("/tasks/:id", h.getTask)

	cats := g.Group("/categories")
	cats.GET("", h.listCategories)
	cats.POST("/preview", idemMW, h.preview)
	cats.POST("/:name/generate", h.generate)
	cats.GET("/:name/phrases", h.listCategoryPhrases)
	cats.DELETE("/:name", h.deleteCategory)
}

// POST /phrases/categories/preview
func (h *Handler) preview(c *gin.Context) {
	var dto PreviewCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	_, lookupErr := h.store.GetRequestBySlug(Slugify(dto.Name))

	req, err := h.orch.Preview(c.Request.Context(), dto.Name, dto.Description, dto.Tags)
	if err != nil {
		h.writePipelineError(c, err)
		return
	}
	if errors.Is(lookupErr, ErrRequestNotFound) {
		response.Created(c, req)
		return
	}
	response.OK(c, req)
}

// POST /phrases/categories/:name/generate
//
// Accepts a request id or the category name. Queues the run and returns 202
// with the task id; poll GET /phrases/tasks/:id for the outcome.
func (h *Handler) generate(c *gin.Context) {
	req, err := h.orch.ResolveRequest(c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.NotFoundMsg(c, "category request not found, preview it first")
			return
		}
		response.InternalError(c, err)
		return
	}

	var dto GenerateCategoryDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	task, err := h.orch.EnqueueGenerate(c.Request.Context(), req.ID, dto.TargetCount)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "phrase generation queued",
		"task_id": task.ID,
		"status":  task.Status,
	})
}

// GET /phrases/tasks/:id
func (h *Handler) getTask(c *gin.Context) {
	task, err := h.orch.Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			response.NotFoundMsg(c, "task not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, task)
}

// GET /phrases?page=&size=
func (h *Handler) listPhrases(c *gin.Context) {
	q := pagination.FromContext(c)
	var phrases []models.GeneratedPhraseModel
	meta, err := pagination.Paginate(h.store.PhrasesQuery(), q, &phrases)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paginated(c, phrases, meta)
}

// GET /phrases/categories
func (h *Handler) listCategories(c *gin.Context) {
	names, err := h.store.GetAllCategoryNames()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, names)
}

// GET /phrases/categories/:name/phrases
func (h *Handler) listCategoryPhrases(c *gin.Context) {
	name := c.Param("name")
	texts, err := h.store.GetPhrasesByCategory(name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, categoryPhrasesResponse{Category: name, Phrases: texts})
}

// DELETE /phrases/categories/:name
func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Param("name")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /phrases/quota
func (h *Handler) quotaStatus(c *gin.Context) {
	allowed, remaining := h.ledger.CanMakeRequest()
	response.OK(c, quotaStatusResponse{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     h.ledger.Limit(),
	})
}

func (h *Handler) writePipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		response.TooManyRequests(c, err.Error(), "86400")
	case errors.Is(err, ErrInsufficientSampleWords), errors.Is(err, ErrEmptyAfterDedup):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrRequestNotFound):
		response.NotFound(c)
	default:
		if perr, ok := generation.AsProviderError(err); ok {
			switch perr.Kind {
			case generation.KindRateLimited:
				response.TooManyRequests(c, perr.Error(), "60")
			case generation.KindAuth:
				response.BadRequest(c, "generation provider rejected the configured credentials")
			default:
				response.InternalError(c, err)
			}
			return
		}
		response.InternalError(c, err)
	}
}
