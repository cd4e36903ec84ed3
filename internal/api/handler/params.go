package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type pageParams struct {
	Page  int
	Limit int
}

// bindPage reads ?page and ?limit; missing values are left at zero and
// defaulted by the views.
func bindPage(c echo.Context) (pageParams, error) {
	var p pageParams
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return p, nil
}
