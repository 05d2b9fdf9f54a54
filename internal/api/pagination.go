package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// parsePage reads ?page= and ?limit=. A missing or unusable limit falls
// back to the default; a malformed page is an error.
func parsePage(c *gin.Context) (types.Page, error) {
	page := types.Page{Page: 1, Limit: DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperror.Missing("invalid page")
		}
		page.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Limit = min(n, MaxPageSize)
		}
	}
	return page, nil
}

// paginated wraps one page of results with the total count and links to
// the neighbouring pages.
func paginated(c *gin.Context, page types.Page, total int64, results interface{}) types.PaginatedResponse {
	resp := types.PaginatedResponse{
		Count:   total,
		Results: results,
	}
	if int64(page.Page*page.Limit) < total {
		next := pageURL(c, page.Page+1)
		resp.Next = &next
	}
	if page.Page > 1 {
		prev := pageURL(c, page.Page-1)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c *gin.Context, n int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if n == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
