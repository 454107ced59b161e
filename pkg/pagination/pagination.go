package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Defaults applied when the client supplies neither limit nor offset
const (
	DefaultLimit  = 20
	DefaultOffset = 0
)

// Page is the descriptor returned alongside every listing
type Page struct {
	Page       int `json:"page"`
	PageCount  int `json:"pageCount"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// Paginate converts a validated (limit, offset) pair and a total row count
// into a page descriptor. It never touches the data store.
//
// pageSize is the number of items actually returned on this page. When
// offset >= totalCount the value goes non-positive and is reported as-is;
// clamping it to zero would change the observable contract.
func Paginate(limit, offset, totalCount int) Page {
	page := offset/limit + 1
	pageCount := (totalCount + limit - 1) / limit
	pageSize := totalCount - offset
	if pageSize > limit {
		pageSize = limit
	}
	return Page{
		Page:       page,
		PageCount:  pageCount,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

// Params is a validated limit/offset pair
type Params struct {
	Limit  int
	Offset int
}

// ParseParams reads limit and offset from the request query, applying the
// defaults when absent. Validation errors surface before any store query
// executes: limit must be a positive integer, offset a non-negative one.
func ParseParams(r *http.Request) (Params, error) {
	p := Params{Limit: DefaultLimit, Offset: DefaultOffset}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Params{}, fmt.Errorf("Limit must be an integer and greater than 0")
		}
		p.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Params{}, fmt.Errorf("Offset must be an integer greater or equal to 0")
		}
		p.Offset = offset
	}

	return p, nil
}
