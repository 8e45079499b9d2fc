package domain

// FilterKind discriminates the Filter variants a repository query accepts.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterByID
	FilterByStatus
	FilterByAssignee
)

// Filter selects a subset of tasks. Exactly one field beyond Kind is
// meaningful, matching which Kind is set.
type Filter struct {
	Kind     FilterKind
	ID       string
	Status   Status
	Assignee string
}

func ByID(id string) Filter             { return Filter{Kind: FilterByID, ID: id} }
func ByStatus(s Status) Filter          { return Filter{Kind: FilterByStatus, Status: s} }
func ByAssignee(name string) Filter     { return Filter{Kind: FilterByAssignee, Assignee: name} }
func All() Filter                       { return Filter{Kind: FilterAll} }

// SortKey is the set of columns FindOptions may order by.
type SortKey string

const (
	SortCreatedAt SortKey = "created_at"
	SortUpdatedAt SortKey = "updated_at"
	SortStatus    SortKey = "status"
	SortTitle     SortKey = "title"
	SortDueDate   SortKey = "due_date"
)

// Order is ascending or descending.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// FindOptions controls the ordering and pagination of a Find query.
type FindOptions struct {
	Sort   SortKey
	Order  Order
	Limit  int
	Offset int
}

// DefaultFindOptions orders by CreatedAt ascending with no pagination limit.
func DefaultFindOptions() FindOptions {
	return FindOptions{Sort: SortCreatedAt, Order: OrderAsc}
}
