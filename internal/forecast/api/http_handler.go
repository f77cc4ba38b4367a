package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/pos-forecast-engine/internal/forecast/service"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
)

const (
	defaultSalesMonths    = 6
	defaultExtendedMonths = 12
)

type ForecastHandler struct {
	gateway service.ForecastGateway
}

func NewForecastHandler(g service.ForecastGateway) *ForecastHandler {
	return &ForecastHandler{gateway: g}
}

func (h *ForecastHandler) RegisterRoutes(router *gin.RouterGroup) {
	forecastRoutes := router.Group("/forecast")
	{
		forecastRoutes.GET("/sales", h.GetSalesForecast)
		forecastRoutes.GET("/categories", h.GetCategoryForecast)
		forecastRoutes.GET("/extended", h.GetExtendedForecast)
		forecastRoutes.GET("/health", h.GetHealth)
	}
}

func monthsQuery(c *gin.Context, def int) (int, error) {
	raw := c.Query("months")
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (h *ForecastHandler) GetSalesForecast(c *gin.Context) {
	months, err := monthsQuery(c, defaultSalesMonths)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "months must be an integer"})
		return
	}
	points, source := h.gateway.ForecastWithSource(c.Request.Context(), months)
	c.Header("X-Forecast-Source", source)
	c.JSON(http.StatusOK, points)
}

func (h *ForecastHandler) GetCategoryForecast(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.GetCategoryForecast(c.Request.Context()))
}

func (h *ForecastHandler) GetExtendedForecast(c *gin.Context) {
	months, err := monthsQuery(c, defaultExtendedMonths)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "months must be an integer"})
		return
	}
	ext, err := h.gateway.GetExtendedForecast(c.Request.Context(), months)
	if err != nil {
		if errors.Is(err, service.ErrInvalidHorizon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetExtendedForecast Hdl: gateway error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build extended forecast"})
		return
	}
	c.JSON(http.StatusOK, ext)
}

func (h *ForecastHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.ForecasterHealth(c.Request.Context()))
}
