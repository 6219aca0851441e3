package reports

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	jwtMiddleware "github.com/ryokan-ops/stayboard/internal/middleware"
	"github.com/ryokan-ops/stayboard/internal/service/reports"
)

type ReportsHandler struct {
	log    *zap.Logger
	svc    *reports.Service
	secret string
}

func NewReportsHandler(log *zap.Logger, svc *reports.Service, secret string) *ReportsHandler {
	return &ReportsHandler{log: log, svc: svc, secret: secret}
}

func (h *ReportsHandler) Register(r *gin.Engine) {
	protected := r.Group("/v1/reports")
	protected.Use(jwtMiddleware.UserMiddleware(h.secret))
	{
		protected.GET("/trend", h.trend)
		protected.GET("/ranking", h.ranking)
		protected.GET("/rooms", h.rooms)
		protected.GET("/yoy", h.yoy)
		protected.GET("/today", h.today)
		protected.GET("/countries", h.countries)
		protected.GET("/cancellations", h.cancellations)
	}
}

// anchorMonth parses the month query param, defaulting to the current month.
func anchorMonth(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		return time.Now().UTC(), true
	}
	t, err := engine.ParseYearMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return time.Time{}, false
	}
	return t, true
}

func (h *ReportsHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, reports.ErrStale) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.log.Error("report failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *ReportsHandler) trend(c *gin.Context) {
	anchor, ok := anchorMonth(c)
	if !ok {
		return
	}
	points, err := h.svc.MonthlyTrend(c.Request.Context(), anchor, c.Query("building"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (h *ReportsHandler) ranking(c *gin.Context) {
	anchor, ok := anchorMonth(c)
	if !ok {
		return
	}
	ranking, err := h.svc.BuildingRanking(c.Request.Context(), anchor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranking})
}

func (h *ReportsHandler) rooms(c *gin.Context) {
	building := c.Query("building")
	if building == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing building"})
		return
	}
	anchor, ok := anchorMonth(c)
	if !ok {
		return
	}
	report, err := h.svc.RoomReport(c.Request.Context(), building, anchor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) yoy(c *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		t, err := time.Parse("2006", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be YYYY"})
			return
		}
		year = t.Year()
	}
	points, err := h.svc.YearOverYear(c.Request.Context(), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "points": points})
}

func (h *ReportsHandler) today(c *gin.Context) {
	snap, err := h.svc.Today(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ReportsHandler) countries(c *gin.Context) {
	anchor, ok := anchorMonth(c)
	if !ok {
		return
	}
	counts, err := h.svc.GuestCountries(c.Request.Context(), anchor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": counts})
}

func (h *ReportsHandler) cancellations(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to precedes from"})
		return
	}
	summary, err := h.svc.Cancellations(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
