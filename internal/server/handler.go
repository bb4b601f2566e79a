// Package server exposes a Ready report over HTTP for chart front ends.
package server

import (
	"errors"
	"net/http"
	"net/url"

	"fjacquet/statement-report/internal/aggregator"
	"fjacquet/statement-report/internal/assembler"
	"fjacquet/statement-report/internal/currencyutils"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/parsererror"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ReportSource is the report being served. *session.Session implements it.
type ReportSource interface {
	ID() string
	State() models.ReportState
	Rows() ([]models.TypedRow, error)
	Groups() ([]models.PayerGroup, error)
	Buckets(payer string) (models.YearBucket, error)
	Result() (assembler.Result, error)
	Summary() (aggregator.Summary, error)
}

// YearTotals is one year of month totals, January first.
type YearTotals struct {
	Year   int         `json:"year"`
	Months [12]float64 `json:"months"`
	Total  float64     `json:"total"`
}

// GroupSummary is a payer group without its rows.
type GroupSummary struct {
	Payer string  `json:"payer"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ReportHandler serves the report of one session.
type ReportHandler struct {
	source ReportSource
	logger logging.Logger
}

// NewReportHandler creates a handler for source.
func NewReportHandler(source ReportSource, logger logging.Logger) *ReportHandler {
	return &ReportHandler{
		source: source,
		logger: logging.OrDefault(logger).WithField("component", "report_handler"),
	}
}

// Routes returns the HTTP routes of the report API.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.GetSummary)
		r.Get("/groups", h.GetGroups)
		r.Get("/groups/{payer}/years", h.GetPayerYears)
		r.Get("/rows", h.GetRows)
		r.Get("/diagnostics", h.GetDiagnostics)
	})
	return r
}

// Health handles GET /health.
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"session": h.source.ID(),
		"state":   h.source.State().Kind.String(),
	})
}

// GetSummary handles GET /api/summary.
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.source.Summary()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, summary, 1)
}

// GetGroups handles GET /api/groups. Groups are ascending by total; pass
// rows=true to include each group's payments.
func (h *ReportHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.source.Groups()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("rows") == "true" {
		h.success(w, r, groups, len(groups))
		return
	}

	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupSummary{Payer: g.Payer, Total: g.TotalAmount, Count: len(g.Rows)})
	}
	h.success(w, r, out, len(out))
}

// GetPayerYears handles GET /api/groups/{payer}/years.
func (h *ReportHandler) GetPayerYears(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request has one, leaving the
	// parameter escaped; otherwise it is already decoded.
	payer := chi.URLParam(r, "payer")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(payer)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "invalid payer")
			return
		}
		payer = unescaped
	}

	buckets, err := h.source.Buckets(payer)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(buckets) == 0 {
		h.respondError(w, r, http.StatusNotFound, "unknown payer")
		return
	}

	years := make([]YearTotals, 0, len(buckets))
	for _, y := range buckets.Years() {
		yt := YearTotals{Year: y}
		for m := 1; m <= 12; m++ {
			yt.Months[m-1] = buckets[y][m]
		}
		yt.Total = currencyutils.Sum(yt.Months[:]...)
		years = append(years, yt)
	}
	h.success(w, r, years, len(years))
}

// GetRows handles GET /api/rows.
func (h *ReportHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.source.Rows()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, rows, len(rows))
}

// GetDiagnostics handles GET /api/diagnostics.
func (h *ReportHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	result, err := h.source.Result()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	diags := result.Diagnostics
	if diags == nil {
		diags = []assembler.Diagnostic{}
	}
	dropped := result.Dropped
	if dropped == nil {
		dropped = []assembler.DroppedRow{}
	}
	h.success(w, r, map[string]interface{}{
		"diagnostics": diags,
		"dropped":     dropped,
	}, len(dropped))
}

func (h *ReportHandler) success(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  count,
	})
}

// fail maps a source error to a response. A report that is not Ready yet
// is a conflict rather than a server fault.
func (h *ReportHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var stateErr *parsererror.StateError
	if errors.As(err, &stateErr) {
		h.respondError(w, r, http.StatusConflict, err.Error())
		return
	}
	h.logger.WithError(err).Error("Request failed",
		logging.F("path", r.URL.Path),
		logging.F("request_id", middleware.GetReqID(r.Context())))
	h.respondError(w, r, http.StatusInternalServerError, "internal error")
}

func (h *ReportHandler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{
		"status": "error",
		"error":  msg,
	})
}
