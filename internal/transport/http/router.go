package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/command_router/internal/domain"
	ikafka "github.com/Gunvolt24/command_router/internal/kafka"
	"github.com/Gunvolt24/command_router/internal/ports"
	"github.com/Gunvolt24/command_router/pkg/httpx"
	"github.com/Gunvolt24/command_router/pkg/validate"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Handler struct {
	consumers ports.CommandConsumerFactory
	devices   ports.DeviceConnectionService
	log       ports.Logger
	timeout   time.Duration
}

// NewHandler — timeout > 0 ограничивает обработку одного запроса.
func NewHandler(consumers ports.CommandConsumerFactory, devices ports.DeviceConnectionService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{consumers: consumers, devices: devices, log: log, timeout: timeout}
}

// NewRouter — serviceName != "" включает otelgin.
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", h.health)

	v1 := r.Group("/v1")
	{
		v1.GET("/command-consumers", h.listConsumers)
		v1.POST("/command-consumers/:tenant", h.createConsumer)
		v1.DELETE("/command-consumers/:tenant", h.stopConsumer)

		dev := v1.Group("/tenants/:tenant/devices/:device")
		dev.PUT("/adapter-instance", h.setAdapterInstance)
		dev.DELETE("/adapter-instance", h.removeAdapterInstance)
		dev.PUT("/gateway", h.setGateway)
	}

	return r
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.timeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (h *Handler) health(c *gin.Context) {
	unhealthy := h.consumers.Health()
	if len(unhealthy) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "tenants": unhealthy})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listConsumers(c *gin.Context) {
	page := httpx.ParsePage(c, defaultListLimit, maxListLimit)

	tenants := h.consumers.Tenants()
	total := len(tenants)
	start, end := page.Bounds(total)

	c.JSON(http.StatusOK, gin.H{"tenants": tenants[start:end], "total": total})
}

func (h *Handler) createConsumer(c *gin.Context) {
	tenantID := c.Param("tenant")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.consumers.CreateCommandConsumer(ctx, tenantID); err != nil {
		h.writeError(c, "CreateCommandConsumer", tenantID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stopConsumer(c *gin.Context) {
	tenantID := c.Param("tenant")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.consumers.StopCommandConsumer(ctx, tenantID); err != nil {
		h.writeError(c, "StopCommandConsumer", tenantID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adapterInstanceRequest struct {
	AdapterInstanceID string `json:"adapter_instance_id" binding:"required"`
	// TTL — строка time.ParseDuration ("30s", "5m"); пусто — без срока.
	TTL string `json:"ttl"`
}

func (h *Handler) setAdapterInstance(c *gin.Context) {
	tenantID, deviceID := c.Param("tenant"), c.Param("device")

	var req adapterInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	var ttl time.Duration
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ttl"})
			return
		}
		ttl = d
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.devices.SetAdapterInstance(ctx, tenantID, deviceID, req.AdapterInstanceID, ttl); err != nil {
		h.writeError(c, "SetAdapterInstance", tenantID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeAdapterInstance(c *gin.Context) {
	tenantID, deviceID := c.Param("tenant"), c.Param("device")
	instance := c.Query("adapter_instance_id")
	if instance == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "adapter_instance_id is required"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	removed, err := h.devices.RemoveAdapterInstance(ctx, tenantID, deviceID, instance)
	if err != nil {
		h.writeError(c, "RemoveAdapterInstance", tenantID, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type gatewayRequest struct {
	GatewayID string `json:"gateway_id" binding:"required"`
}

func (h *Handler) setGateway(c *gin.Context) {
	tenantID, deviceID := c.Param("tenant"), c.Param("device")

	var req gatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.devices.SetLastKnownGateway(ctx, tenantID, deviceID, req.GatewayID); err != nil {
		h.writeError(c, "SetLastKnownGateway", tenantID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError — сопоставление ошибок домена/фабрики с HTTP-статусами.
func (h *Handler) writeError(c *gin.Context, op, tenantID string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed tenant=%s err=%v", op, tenantID, err)
	} else {
		h.log.Warnf(c.Request.Context(), "%s rejected tenant=%s err=%v", op, tenantID, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTenantNotFound),
		errors.Is(err, ikafka.ErrConsumerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ikafka.ErrFactoryNotStarted),
		errors.Is(err, ikafka.ErrFactoryStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// брокер, Redis и прочие внешние зависимости
		return http.StatusBadGateway
	}
}
