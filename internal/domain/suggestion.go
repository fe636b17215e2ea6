package domain

// PopularQuery is a recorded search query with its usage count.
type PopularQuery struct {
	Query string
	Count int64
}
