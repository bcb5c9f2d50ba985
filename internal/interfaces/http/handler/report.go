package handler

import (
	"errors"
	"time"

	appanalytics "github.com/bookstore/backend/internal/application/analytics"
	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ReportHandler handles sales analytics API endpoints
type ReportHandler struct {
	BaseHandler
	reports  *appanalytics.ReportService
	minSales int64
	limit    int
	now      func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appanalytics.ReportService, minSales int64, limit int) *ReportHandler {
	return &ReportHandler{
		reports:  reports,
		minSales: minSales,
		limit:    limit,
		now:      time.Now,
	}
}

// RegisterRoutes registers report routes on the given router group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/revenue/daily", h.DailyRevenue)
		reports.GET("/revenue/weekly", h.WeeklyRevenue)
		reports.GET("/revenue/monthly", h.MonthlyRevenue)
		reports.GET("/revenue/range", h.RevenueRange)
		reports.GET("/best-sellers", h.BestSellers)
		reports.GET("/product-sales", h.ProductSales)
	}
}

// ===================== Request DTOs =====================

// RevenueRangeRequest defines the custom date range query
type RevenueRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// BestSellersRequest allows callers to tighten or widen the default ranking cut
type BestSellersRequest struct {
	MinSales *int64 `form:"min_sales" binding:"omitempty,min=0"`
	Limit    *int   `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ===================== Response DTOs =====================

// ChartSeriesResponse is a labelled revenue series, oldest bucket first,
// shaped for direct consumption by dashboard chart widgets.
type ChartSeriesResponse struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BestSellerResponse is one ranked product with its catalog details
type BestSellerResponse struct {
	ProductName   string   `json:"product_name"`
	TotalQuantity int64    `json:"total_quantity"`
	Thumbnail     *string  `json:"thumbnail,omitempty"`
	Price         *float64 `json:"price,omitempty"`
}

// ProductSalesResponse is one product's all-time delivered sales total
type ProductSalesResponse struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// toChartSeries converts revenue points to a chart series, optionally
// reversing them so labels always run oldest to newest.
func toChartSeries(points []analytics.RevenuePoint, reverse bool) ChartSeriesResponse {
	resp := ChartSeriesResponse{
		Labels: make([]string, len(points)),
		Values: make([]float64, len(points)),
	}
	for i, p := range points {
		j := i
		if reverse {
			j = len(points) - 1 - i
		}
		resp.Labels[j] = p.Label
		resp.Values[j] = p.Revenue.InexactFloat64()
	}
	return resp
}

// ===================== Endpoints =====================

// DailyRevenue returns revenue for each of the last ten days
// @Router /reports/revenue/daily [get]
func (h *ReportHandler) DailyRevenue(c *gin.Context) {
	points, err := h.reports.RevenueLastDays(c.Request.Context(), h.now())
	if err != nil {
		h.reportError(c, err)
		return
	}
	h.Success(c, toChartSeries(points, true))
}

// WeeklyRevenue returns revenue for each day of the current week
// @Router /reports/revenue/weekly [get]
func (h *ReportHandler) WeeklyRevenue(c *gin.Context) {
	points, err := h.reports.RevenueCurrentWeek(c.Request.Context(), h.now())
	if err != nil {
		h.reportError(c, err)
		return
	}
	h.Success(c, toChartSeries(points, false))
}

// MonthlyRevenue returns revenue for each of the trailing twelve months
// @Router /reports/revenue/monthly [get]
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	points, err := h.reports.RevenueTrailingMonths(c.Request.Context(), h.now())
	if err != nil {
		h.reportError(c, err)
		return
	}
	h.Success(c, toChartSeries(points, true))
}

// RevenueRange returns daily revenue for a custom date range
// @Router /reports/revenue/range [get]
func (h *ReportHandler) RevenueRange(c *gin.Context) {
	var req RevenueRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "start_date and end_date are required")
		return
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
	if err != nil {
		h.BadRequest(c, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
	if err != nil {
		h.BadRequest(c, "end_date must be formatted as YYYY-MM-DD")
		return
	}

	points, err := h.reports.RevenueRange(c.Request.Context(), start, end)
	if err != nil {
		h.reportError(c, err)
		return
	}
	h.Success(c, toChartSeries(points, false))
}

// BestSellers returns the ranked best-selling products
// @Router /reports/best-sellers [get]
func (h *ReportHandler) BestSellers(c *gin.Context) {
	var req BestSellersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "min_sales must be >= 0 and limit must be between 1 and 100")
		return
	}

	minSales, limit := h.minSales, h.limit
	if req.MinSales != nil {
		minSales = *req.MinSales
	}
	if req.Limit != nil {
		limit = *req.Limit
	}

	ranked, err := h.reports.BestSellers(c.Request.Context(), minSales, limit)
	if err != nil {
		h.reportError(c, err)
		return
	}

	resp := make([]BestSellerResponse, len(ranked))
	for i, r := range ranked {
		resp[i] = BestSellerResponse{
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			Thumbnail:     r.Thumbnail,
		}
		if r.Price != nil {
			price := r.Price.InexactFloat64()
			resp[i].Price = &price
		}
	}
	h.Success(c, resp)
}

// ProductSales returns all-time sales totals for every sold product
// @Router /reports/product-sales [get]
func (h *ReportHandler) ProductSales(c *gin.Context) {
	totals, err := h.reports.ProductSalesTotals(c.Request.Context())
	if err != nil {
		h.reportError(c, err)
		return
	}

	resp := make([]ProductSalesResponse, len(totals))
	for i, t := range totals {
		resp[i] = ProductSalesResponse{
			ProductName:   t.ProductName,
			TotalQuantity: t.TotalQuantity,
		}
	}
	h.Success(c, resp)
}

// reportError maps service errors to HTTP responses
func (h *ReportHandler) reportError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrStoreUnavailable) {
		h.ErrorWithCode(c, dto.ErrCodeStoreUnavailable, "order store is temporarily unavailable, retry later")
		return
	}
	h.InternalError(c, "failed to compute report")
}
