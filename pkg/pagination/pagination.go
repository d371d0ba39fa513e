package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context. Both
// page/limit and limit/offset styles are accepted; page wins when present.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if page, _ := strconv.Atoi(c.QueryParam("page")); page > 0 {
		return Params{Limit: limit, Offset: (page - 1) * limit}
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	Limit   int         `json:"limit"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return &Response{
		Data:    data,
		Total:   total,
		Page:    p.Offset/p.Limit + 1,
		Pages:   (total + p.Limit - 1) / p.Limit,
		Limit:   p.Limit,
		HasNext: p.HasNext(total),
		HasPrev: p.HasPrevious(),
	}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}
