// internal/handlers/stats/stats_handler.go
package stats

import (
	"fmt"
	"net/http"
	"strconv"

	"uav-maintenance-service/internal/fleet"
	"uav-maintenance-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limits holds the defaults used when a request omits days/limit and the
// largest values a request may ask for. Zero fields take the fleet defaults.
type Limits struct {
	WindowDays    int
	TopLimit      int
	MaxWindowDays int
	MaxLimit      int
}

func (l Limits) withDefaults() Limits {
	if l.WindowDays <= 0 {
		l.WindowDays = fleet.DefaultWindowDays
	}
	if l.TopLimit <= 0 {
		l.TopLimit = fleet.DefaultMalfunctionLimit
	}
	if l.MaxWindowDays <= 0 {
		l.MaxWindowDays = fleet.MaxWindowDays
	}
	if l.MaxLimit <= 0 {
		l.MaxLimit = fleet.MaxLimit
	}
	return l
}

type StatsHandler struct {
	store  *fleet.Store
	limits Limits
	logger *zap.Logger
}

func NewStatsHandler(store *fleet.Store, limits Limits, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		store:  store,
		limits: limits.withDefaults(),
		logger: logger,
	}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	response.Success(c, http.StatusOK, "dashboard stats", h.store.DashboardStats())
}

func (h *StatsHandler) StatusDistribution(c *gin.Context) {
	response.Success(c, http.StatusOK, "status distribution", h.store.StatusDistribution())
}

func (h *StatsHandler) LocationDistribution(c *gin.Context) {
	response.Success(c, http.StatusOK, "location distribution", h.store.LocationDistribution())
}

// Arrivals returns one count per day of the trailing window (?days=N)
func (h *StatsHandler) Arrivals(c *gin.Context) {
	days, ok := intQuery(c, "days", h.limits.WindowDays, h.limits.MaxWindowDays)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "arrivals time series", h.store.ArrivalsTimeSeries(days))
}

// Malfunctions returns the most frequent malfunction descriptions (?limit=N)
func (h *StatsHandler) Malfunctions(c *gin.Context) {
	limit, ok := intQuery(c, "limit", h.limits.TopLimit, h.limits.MaxLimit)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "top malfunctions", h.store.TopMalfunctions(limit))
}

// Recent returns the latest arrivals by arrival date (?limit=N)
func (h *StatsHandler) Recent(c *gin.Context) {
	limit, ok := intQuery(c, "limit", fleet.DefaultRecentLimit, h.limits.MaxLimit)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "recent arrivals", h.store.RecentArrivals(limit))
}

// intQuery reads a query integer in [0, upper]; an absent key yields fallback.
func intQuery(c *gin.Context, key string, fallback, upper int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > upper {
		response.ValidationError(c, fmt.Sprintf("%s must be an integer between 0 and %d", key, upper), err)
		return 0, false
	}
	return n, true
}
