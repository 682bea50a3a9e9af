package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/filter"
	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/service"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

const dateLayout = "2006-01-02"

// parseFilter reads the dashboard filter from the query string.
// A repeatable parameter that is absent allows every value; present but empty allows none.
func parseFilter(c *gin.Context) (models.DeliveryFilter, error) {
	var f models.DeliveryFilter

	var err error
	if f.StartDate, err = parseDateParam(c, "start"); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDateParam(c, "end"); err != nil {
		return f, err
	}

	f.Weather = valuesParam(c, "weather")
	f.Traffic = valuesParam(c, "traffic")
	f.Vehicle = valuesParam(c, "vehicle")
	f.Area = valuesParam(c, "area")
	f.Category = valuesParam(c, "category")
	return f, nil
}

func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s parameter %q, expected YYYY-MM-DD", name, raw)
	}
	return t, nil
}

func valuesParam(c *gin.Context, name string) []string {
	raw, ok := c.GetQueryArray(name)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// filterOrAbort parses the filter and answers 400 on failure
func filterOrAbort(c *gin.Context) (models.DeliveryFilter, bool) {
	f, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return f, false
	}
	return f, true
}

// writeError maps service errors onto the response envelope
func writeError(c *gin.Context, err error) {
	var loadErr *dataset.LoadError
	switch {
	case errors.Is(err, filter.ErrInvalidDateRange):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNoData):
		response.NotFound(c, err.Error())
	case errors.As(err, &loadErr):
		response.ServiceUnavailable(c, loadErr.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}
	_ = c.Error(err)
}
