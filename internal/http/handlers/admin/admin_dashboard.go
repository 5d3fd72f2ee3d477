package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	input, ok := parseDashboardQuery(c)
	if !ok {
		return
	}

	data, err := h.DashboardService.GetOverview(c.Request.Context(), input)
	if err != nil {
		respondDashboardError(c, err)
		return
	}

	response.Success(c, data)
}

// GetDashboardRankings 获取后台仪表盘排行榜
func (h *Handler) GetDashboardRankings(c *gin.Context) {
	input, ok := parseDashboardQuery(c)
	if !ok {
		return
	}

	data, err := h.DashboardService.GetRankings(c.Request.Context(), input)
	if err != nil {
		respondDashboardError(c, err)
		return
	}

	response.Success(c, data)
}

// GetDashboardTrends 获取后台仪表盘趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	input, ok := parseDashboardQuery(c)
	if !ok {
		return
	}

	data, err := h.DashboardService.GetTrends(c.Request.Context(), input)
	if err != nil {
		respondDashboardError(c, err)
		return
	}

	response.Success(c, data)
}

func respondDashboardError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDashboardRangeInvalid) {
		respondError(c, response.CodeBadRequest, "error.dashboard_range_invalid", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
}

// parseDashboardQuery 解析 range/from/to/tz/force_refresh，失败时已写回响应
func parseDashboardQuery(c *gin.Context) (service.DashboardQueryInput, bool) {
	from, err := parseTimeNullable(strings.TrimSpace(c.Query("from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.dashboard_range_invalid", err)
		return service.DashboardQueryInput{}, false
	}
	to, err := parseTimeNullable(strings.TrimSpace(c.Query("to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.dashboard_range_invalid", err)
		return service.DashboardQueryInput{}, false
	}

	forceRefresh := false
	if raw := strings.TrimSpace(c.Query("force_refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return service.DashboardQueryInput{}, false
		}
		forceRefresh = parsed
	}

	return service.DashboardQueryInput{
		Range:        strings.TrimSpace(c.DefaultQuery("range", "7d")),
		From:         from,
		To:           to,
		Timezone:     strings.TrimSpace(c.Query("tz")),
		ForceRefresh: forceRefresh,
	}, true
}
