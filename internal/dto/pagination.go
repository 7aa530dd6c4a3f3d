package dto

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// PaginatedQuery is the limit/offset pair accepted by every list endpoint.
// Nil fields fall back to DefaultLimit and DefaultOffset.
type PaginatedQuery struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

// Validate checks the paging window.
func (q PaginatedQuery) Validate() ValidationResult {
	return validateStruct(q)
}

// Window resolves defaults and returns the effective limit and offset.
func (q PaginatedQuery) Window() (limit, offset int) {
	limit, offset = DefaultLimit, DefaultOffset
	if q.Limit != nil {
		limit = *q.Limit
	}
	if q.Offset != nil {
		offset = *q.Offset
	}
	return limit, offset
}

// Page builds a PaginatedQuery from explicit values.
func Page(limit, offset int) PaginatedQuery {
	return PaginatedQuery{Limit: &limit, Offset: &offset}
}

// PaginatedResponse is the envelope returned by list endpoints.
type PaginatedResponse[T any] struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	Results []T   `json:"results"`
}
