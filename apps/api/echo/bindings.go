package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/backend/core/fee"
)

var (
	studentIDParam = "studentId"
	statusParam    = "status"
)

// bindFeeFilter reads the optional equality filters of the fee listing.
// A status list may be comma-separated.
func bindFeeFilter(ctx echo.Context) fee.QueryFilter {
	filter := fee.QueryFilter{StudentID: strings.TrimSpace(ctx.QueryParam(studentIDParam))}
	if val := ctx.QueryParam(statusParam); val != "" {
		for _, status := range strings.Split(val, ",") {
			if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	return filter
}
