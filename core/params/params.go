package params

import (
	"strconv"

	"eventra/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams carries common pagination query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromContext parses pagination parameters with sane bounds.
func FromContext(c echo.Context) QueryParams {
	p := QueryParams{PageNumber: 1, PageSize: constants.DefaultPageSize}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
	}
	if p.PageSize > constants.MaxPageSize {
		p.PageSize = constants.MaxPageSize
	}
	return p
}
