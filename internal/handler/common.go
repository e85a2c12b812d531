package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/university-admin/internal/middleware"
	"github.com/iliyamo/university-admin/internal/model"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// principal returns the authenticated user injected by the gate. Routes
// registered behind the gate always have one; the error branch only fires on
// a wiring mistake.
func principal(c echo.Context) (model.User, error) {
	u, ok := middleware.Principal(c)
	if !ok {
		return model.User{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return u, nil
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil
}

// pageParams reads ?page= and ?per_page= with defaults.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	per, _ := strconv.Atoi(c.QueryParam("per_page"))
	if per < 1 {
		per = 20
	}
	return page, per
}

// pagination is the envelope returned alongside every list response.
type pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

func paginate(page, per, total int) pagination {
	pages := (total + per - 1) / per
	if pages < 1 {
		pages = 1
	}
	return pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}

// userSummary is the safe subset of a user returned by the API.
type userSummary struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

func summarize(u model.User) userSummary {
	return userSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
