package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parseID reads a positive integer path parameter or rejects with a 400.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func paginationMeta(page, perPage int, total int64) echo.Map {
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	return echo.Map{
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    pages,
		"has_next": page < pages,
		"has_prev": page > 1,
	}
}
