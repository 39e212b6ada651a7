// Package http provides http transport for trend queries
package http

import (
	stdhttp "net/http"
	"strconv"

	"trendscope/internal/modkit/httpkit"
	perr "trendscope/internal/platform/errors"
	"trendscope/internal/services/api/trends/domain"
	svc "trendscope/internal/services/api/trends/service"
)

// Register mounts trends endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.QueryInput](r, "/query", h.query)
	httpkit.PostJSON[domain.ExportInput](r, "/export", h.export)
	httpkit.PostJSON[domain.QueryInput](r, "/prompt", h.prompt)
	httpkit.Get(r, "/outcomes", h.outcomes)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /trends/query Trends trendsQuery
// @Summary Query simulated tag popularity
// @Tags Trends
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Filters"
// @Success 200 {object} domain.QueryResult "ok"
// @Failure 502 {object} swaggerkit.ErrorResponse "trend source failed or replied off contract"
// @Router /trends/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}

// swagger:route POST /trends/export Trends trendsExport
// @Summary Export series as CSV
// @Tags Trends
// @Accept json
// @Produce text/csv
// @Param payload body domain.ExportInput true "Series on screen"
// @Success 200 {string} string "csv attachment"
// @Router /trends/export [post]
func (h *handlers) export(r *stdhttp.Request, in domain.ExportInput) (any, error) {
	out, err := h.svc.Export(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Download(out.Filename, "text/csv; charset=utf-8", []byte(out.CSV)), nil
}

// swagger:route POST /trends/prompt Trends trendsPrompt
// @Summary Preview the prompt and reply schema a query would send
// @Tags Trends
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Filters"
// @Success 200 {object} domain.PromptPreview "ok"
// @Router /trends/prompt [post]
func (h *handlers) prompt(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Prompt(r.Context(), in)
}

// swagger:route GET /trends/outcomes Trends trendsOutcomes
// @Summary Recent query outcomes from the journal
// @Tags Trends
// @Produce json
// @Param limit query int false "max entries (1-200)"
// @Success 200 {array} domain.Outcome "ok"
// @Router /trends/outcomes [get]
func (h *handlers) outcomes(r *stdhttp.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return nil, perr.Validationf("limit", "limit must be between 1 and 200")
		}
		limit = n
	}
	return h.svc.Outcomes(r.Context(), limit)
}
