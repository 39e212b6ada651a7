// Package http provides http transport for the dashboard session
package http

import (
	stdhttp "net/http"
	"net/url"
	"strconv"

	"trendscope/internal/core/session"
	"trendscope/internal/core/trend"
	"trendscope/internal/modkit/httpkit"
	perr "trendscope/internal/platform/errors"
	phttp "trendscope/internal/platform/net/http"
	"trendscope/internal/services/api/session/domain"
	svc "trendscope/internal/services/api/session/service"
)

// Register mounts session endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.view)
	httpkit.PostJSON[domain.TagInput](r, "/tags", h.addTag)
	httpkit.Delete(r, "/tags/{tag}", h.removeTag)
	httpkit.PostJSON[domain.TagInput](r, "/select", h.toggle)
	httpkit.PutJSON[domain.ModeInput](r, "/mode", h.setMode)
	httpkit.PutJSON[domain.RangeInput](r, "/range", h.setRange)
	httpkit.Post(r, "/submit", h.submit)
	httpkit.Post(r, "/error/clear", h.clearError)
	httpkit.Post(r, "/reset", h.reset)
	r.Get("/export", httpkit.Handle(h.export))
}

type handlers struct{ svc svc.Service }

// swagger:route GET /session Session sessionView
// @Summary Current dashboard state
// @Tags Session
// @Produce json
// @Success 200 {object} domain.View "ok"
// @Router /session [get]
func (h *handlers) view(*stdhttp.Request) (any, error) {
	return h.svc.View(), nil
}

// swagger:route POST /session/tags Session sessionAddTag
// @Summary Add a tag; blanks and duplicates are ignored
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body domain.TagInput true "Tag"
// @Success 200 {object} domain.View "ok"
// @Router /session/tags [post]
func (h *handlers) addTag(_ *stdhttp.Request, in domain.TagInput) (any, error) {
	return h.svc.Dispatch(session.AddTag{Raw: in.Tag})
}

// swagger:route DELETE /session/tags/{tag} Session sessionRemoveTag
// @Summary Remove a tag from the tags and the selection
// @Tags Session
// @Produce json
// @Param tag path string true "Tag"
// @Success 200 {object} domain.View "ok"
// @Router /session/tags/{tag} [delete]
func (h *handlers) removeTag(r *stdhttp.Request) (any, error) {
	tag, err := url.PathUnescape(phttp.URLParam(r, "tag"))
	if err != nil {
		return nil, perr.Validationf("tag", "tag is not valid path text")
	}
	return h.svc.Dispatch(session.RemoveTag{Tag: tag})
}

// swagger:route POST /session/select Session sessionToggle
// @Summary Toggle a tag in the selection used by AND, OR and NOT
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body domain.TagInput true "Tag"
// @Success 200 {object} domain.View "ok"
// @Router /session/select [post]
func (h *handlers) toggle(_ *stdhttp.Request, in domain.TagInput) (any, error) {
	return h.svc.Dispatch(session.ToggleSelect{Tag: in.Tag})
}

// swagger:route PUT /session/mode Session sessionMode
// @Summary Switch the logic mode; NONE clears the selection
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body domain.ModeInput true "Mode"
// @Success 200 {object} domain.View "ok"
// @Router /session/mode [put]
func (h *handlers) setMode(_ *stdhttp.Request, in domain.ModeInput) (any, error) {
	mode, ok := trend.ParseMode(in.Mode)
	if !ok {
		return nil, perr.Validationf("mode", "unknown logic mode %q", in.Mode)
	}
	return h.svc.Dispatch(session.SetMode{Mode: mode})
}

// swagger:route PUT /session/range Session sessionRange
// @Summary Replace the year range
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body domain.RangeInput true "Range"
// @Success 200 {object} domain.View "ok"
// @Router /session/range [put]
func (h *handlers) setRange(_ *stdhttp.Request, in domain.RangeInput) (any, error) {
	return h.svc.Dispatch(session.SetRange{Range: trend.YearRange{Start: in.StartYear, End: in.EndYear}})
}

// swagger:route POST /session/submit Session sessionSubmit
// @Summary Run the query for the current filters
// @Description Rejected with 409 while a query is in flight. With wait=true the call blocks until it settles
// @Tags Session
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Success 200 {object} domain.View "settled"
// @Success 202 {object} domain.View "started"
// @Failure 409 {object} swaggerkit.ErrorResponse "already loading"
// @Router /session/submit [post]
func (h *handlers) submit(r *stdhttp.Request) (any, error) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	v, err := h.svc.Submit(r.Context(), wait)
	if err != nil {
		return nil, err
	}
	if v.Loading {
		return httpkit.Accepted(v), nil
	}
	return v, nil
}

// swagger:route POST /session/error/clear Session sessionClearError
// @Summary Dismiss the error banner
// @Tags Session
// @Produce json
// @Success 200 {object} domain.View "ok"
// @Router /session/error/clear [post]
func (h *handlers) clearError(*stdhttp.Request) (any, error) {
	return h.svc.Dispatch(session.ClearError{})
}

// swagger:route POST /session/reset Session sessionReset
// @Summary Back to a fresh session; an in-flight reply is discarded
// @Tags Session
// @Produce json
// @Success 200 {object} domain.View "ok"
// @Router /session/reset [post]
func (h *handlers) reset(*stdhttp.Request) (any, error) {
	return h.svc.Dispatch(session.Reset{})
}

// swagger:route GET /session/export Session sessionExport
// @Summary Download the current result as CSV
// @Tags Session
// @Produce text/csv
// @Success 200 {string} string "csv attachment"
// @Failure 404 {object} swaggerkit.ErrorResponse "nothing to export"
// @Router /session/export [get]
func (h *handlers) export(*stdhttp.Request) httpkit.Response {
	name, csv, err := h.svc.Export()
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Download(name, "text/csv; charset=utf-8", []byte(csv))
}
