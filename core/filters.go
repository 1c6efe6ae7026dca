package core

type ListFilter struct {
	OwnerID     int64
	IncludeDone bool
	Category    *string
	Priority    *Priority
}
