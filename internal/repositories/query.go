package repositories

// JoinType selects how products are joined to their stores in a list query.
type JoinType int

const (
	// JoinLeft keeps products that belong to no store.
	JoinLeft JoinType = iota
	// JoinInner keeps only products linked to at least one matching store.
	JoinInner
)

// Page is a skip/take window.
type Page struct {
	Skip int
	Take int
}

// Filter is an equality condition on a qualified column such as "store.id".
// Columns must come from a fixed whitelist; they are never built from user input.
type Filter struct {
	Column string
	Value  interface{}
}

// ListQuery describes a filtered, sorted and paginated product scan.
type ListQuery struct {
	Page    Page
	Join    JoinType
	Filters []Filter
	OrderBy string // product column name, e.g. "id"
	Desc    bool
}

// Columns accepted in Filter.Column and ListQuery.OrderBy.
const (
	ColumnStoreID         = "store.id"
	ColumnProductID       = "id"
	ColumnProductName     = "name"
	ColumnProductCategory = "category"
)
