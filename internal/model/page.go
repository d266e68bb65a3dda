package model

// Page is one slice of a paginated, user-scoped listing.
type Page[T any] struct {
    Items []T
    Total int64
    Page  int
    Size  int
}

// TotalPages is ceil(Total/Size); zero when there are no rows.
func (p Page[T]) TotalPages() int {
    if p.Size <= 0 {
        return 0
    }
    return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
