package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/reports"
)

const defaultReportDays = 30

// reportWindow reads ?from= and ?to= as dates. "to" is inclusive, so the
// returned end is the start of the following day.
func reportWindow(c *gin.Context) (time.Time, time.Time, error) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.IsZero() {
		to = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultReportDays)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from is after to", errBadDate)
	}
	return from, to.AddDate(0, 0, 1), nil
}

// ReportHandler streams the report in the given format as an attachment.
func ReportHandler(svc *reports.Service, format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		from, to, err := reportWindow(c)
		if err != nil {
			failErr(c, err)
			return
		}
		export, err := svc.Generate(c.Request.Context(), userID, format, from, to)
		if err != nil {
			failErr(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		c.Data(http.StatusOK, export.ContentType, export.Data)
	}
}

// SummaryHandler returns income, expense and per-category totals.
func SummaryHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		from, to, err := reportWindow(c)
		if err != nil {
			failErr(c, err)
			return
		}
		summary, err := db.GetSummary(c.Request.Context(), userID, from, to)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "summary built", gin.H{"summary": summary})
	}
}
