package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/danzirulez/LogAnalyticsCollector/internal/convert"
	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/store"
)

// reportsPath is the report ingestion and query route prefix.
const reportsPath = "/v1/reports"

// Handler serves the report HTTP API.
type Handler struct {
	store *store.Store
}

// NewHandler creates a new HTTP handler backed by the given store.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Register binds the report routes. The latest-by-hostname route is
// registered before the by-id route so the router matches it first.
func (h *Handler) Register(r *khttp.Router) {
	r.POST(reportsPath, h.SubmitReport)
	r.GET(reportsPath, h.ListReports)
	r.GET(reportsPath+"/latest/{hostname}", h.GetLatestReport)
	r.GET(reportsPath+"/{id}", h.GetReport)
	r.DELETE(reportsPath+"/{id}", h.DeleteReport)
}

type submitReportResponse struct {
	ID       int64     `json:"id"`
	StoredAt time.Time `json:"storedAt"`
}

type reportResponse struct {
	ID       int64          `json:"id"`
	Report   *engine.Report `json:"report"`
	StoredAt time.Time      `json:"storedAt"`
}

type listReportsResponse struct {
	Reports    []convert.Summary `json:"reports"`
	TotalCount int               `json:"totalCount"`
}

func (h *Handler) SubmitReport(ctx khttp.Context) error {
	var report engine.Report
	if err := ctx.Bind(&report); err != nil {
		return kerrors.BadRequest("MALFORMED_REPORT", err.Error())
	}
	if report.Host.Hostname == "" {
		return kerrors.BadRequest("MISSING_HOSTNAME", "hostIdentity.hostname is required")
	}
	if report.RunID == "" {
		return kerrors.BadRequest("MISSING_RUN_ID", "runId is required")
	}

	rec, err := convert.ReportToRecord(&report)
	if err != nil {
		return kerrors.InternalServer("CONVERT_REPORT", err.Error())
	}

	id, storedAt, err := h.store.Insert(ctx, rec)
	if err != nil {
		return kerrors.InternalServer("STORE_REPORT", err.Error())
	}

	return ctx.Result(http.StatusCreated, submitReportResponse{ID: id, StoredAt: storedAt})
}

func (h *Handler) GetReport(ctx khttp.Context) error {
	id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
	if err != nil {
		return kerrors.BadRequest("MALFORMED_ID", "report id must be an integer")
	}

	rec, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
		}
		return kerrors.InternalServer("GET_REPORT", err.Error())
	}

	return h.resultRecord(ctx, rec)
}

func (h *Handler) GetLatestReport(ctx khttp.Context) error {
	hostname := ctx.Vars().Get("hostname")
	if hostname == "" {
		return kerrors.BadRequest("MISSING_HOSTNAME", "hostname is required")
	}

	rec, err := h.store.GetLatestByHostname(ctx, hostname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kerrors.NotFound("REPORT_NOT_FOUND", "no report stored for hostname")
		}
		return kerrors.InternalServer("GET_REPORT", err.Error())
	}

	return h.resultRecord(ctx, rec)
}

func (h *Handler) ListReports(ctx khttp.Context) error {
	q := ctx.Query()
	filter := store.ListFilter{
		Hostname: q.Get("hostname"),
		RunID:    q.Get("runId"),
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return kerrors.BadRequest("MALFORMED_PAGE", "pageSize must be an integer")
		}
		filter.PageSize = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return kerrors.BadRequest("MALFORMED_PAGE", "page must be an integer")
		}
		filter.Page = n
	}
	if v := q.Get("collectedAfter"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return kerrors.BadRequest("MALFORMED_TIME", "collectedAfter must be RFC 3339")
		}
		filter.CollectedAfter = &t
	}
	if v := q.Get("collectedBefore"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return kerrors.BadRequest("MALFORMED_TIME", "collectedBefore must be RFC 3339")
		}
		filter.CollectedBefore = &t
	}

	records, total, err := h.store.List(ctx, filter)
	if err != nil {
		return kerrors.InternalServer("LIST_REPORTS", err.Error())
	}

	summaries := make([]convert.Summary, len(records))
	for i := range records {
		summaries[i] = convert.RecordToSummary(&records[i])
	}

	return ctx.Result(http.StatusOK, listReportsResponse{Reports: summaries, TotalCount: total})
}

func (h *Handler) DeleteReport(ctx khttp.Context) error {
	id, err := strconv.ParseInt(ctx.Vars().Get("id"), 10, 64)
	if err != nil {
		return kerrors.BadRequest("MALFORMED_ID", "report id must be an integer")
	}

	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kerrors.NotFound("REPORT_NOT_FOUND", "report not found")
		}
		return kerrors.InternalServer("DELETE_REPORT", err.Error())
	}

	return ctx.Result(http.StatusOK, struct{}{})
}

func (h *Handler) resultRecord(ctx khttp.Context, rec *store.ReportRecord) error {
	report, err := convert.RecordToReport(rec)
	if err != nil {
		return kerrors.InternalServer("DECODE_REPORT", err.Error())
	}
	return ctx.Result(http.StatusOK, reportResponse{ID: rec.ID, Report: report, StoredAt: rec.StoredAt})
}
