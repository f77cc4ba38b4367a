package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/pos-forecast-engine/internal/platform/logger"
	"github.com/ridloal/pos-forecast-engine/internal/platform/middleware"
	"github.com/ridloal/pos-forecast-engine/internal/sale/domain"
	"github.com/ridloal/pos-forecast-engine/internal/sale/service"
	"go.uber.org/zap"
)

const dateOnly = "2006-01-02"

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(ss service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	saleRoutes := router.Group("/sales")
	{
		saleRoutes.POST("", h.PostSale)
		saleRoutes.GET("", h.ListSales)
		saleRoutes.GET("/stats", h.GetSalesStats)
		saleRoutes.GET("/:id", h.GetSale)
		saleRoutes.PUT("/:id", h.UpdateSale)
		saleRoutes.DELETE("/:id", h.DeleteSale)
	}
}

func (h *SaleHandler) PostSale(c *gin.Context) {
	var req domain.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sale, err := h.saleService.PostSale(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("PostSale Hdl: sale not recorded", err,
				zap.String("request_id", middleware.GetRequestID(c)), zap.String("product_id", req.ProductID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sale"})
		}
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// parseFilter reads start_date, end_date and product_id. Dates accept RFC3339 or YYYY-MM-DD;
// a bare end date covers the whole day.
func parseFilter(c *gin.Context) (domain.SaleFilter, error) {
	filter := domain.SaleFilter{ProductID: c.Query("product_id")}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date: %w", err)
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date: %w", err)
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sales, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		logger.Error("ListSales Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) GetSalesStats(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stats, err := h.saleService.GetSalesStats(c.Request.Context(), filter)
	if err != nil {
		logger.Error("GetSalesStats Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetSale Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) UpdateSale(c *gin.Context) {
	var req domain.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	sale, err := h.saleService.UpdateSale(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("UpdateSale Hdl: service error", err, zap.String("request_id", middleware.GetRequestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.saleService.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeleteSale Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale"})
		return
	}
	c.Status(http.StatusNoContent)
}
