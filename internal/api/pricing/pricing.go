package pricing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/ryokan-ops/stayboard/internal/middleware"
	"github.com/ryokan-ops/stayboard/internal/service/pricing"
)

type PricingHandler struct {
	log    *zap.Logger
	svc    *pricing.Service
	secret string
}

func NewPricingHandler(log *zap.Logger, svc *pricing.Service, secret string) *PricingHandler {
	return &PricingHandler{log: log, svc: svc, secret: secret}
}

func (h *PricingHandler) Register(r *gin.Engine) {
	g := r.Group("/v1/pricing")
	g.GET("/:building/rooms", jwtMiddleware.UserMiddleware(h.secret), h.rates)
	g.PUT("/:building/rooms/:roomId", jwtMiddleware.AdminMiddleware(h.secret), h.sync)
}

func (h *PricingHandler) rates(c *gin.Context) {
	building := c.Param("building")
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

	rates, code, err := h.svc.RoomRates(c.Request.Context(), building, from, to)
	if err != nil {
		h.log.Error("rate fetch failed", zap.String("building", building), zap.Error(err))
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(code, gin.H{"building": building, "rooms": rates})
}

func (h *PricingHandler) sync(c *gin.Context) {
	building := c.Param("building")
	roomID := c.Param("roomId")

	var req pricing.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calls, code, err := h.svc.SyncRoomRates(c.Request.Context(), building, roomID, req)
	if err != nil {
		h.log.Error("rate sync failed", zap.String("building", building), zap.String("room", roomID), zap.Error(err))
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(code, gin.H{"synced_days": len(req.Rates), "channel_calls": calls})
}
