package invitation

import "github.com/edmw/wishlist-sub003/internal/domain/sorting"

// Sortable invitation properties.
const (
	SortByID        = "id"
	SortByEmail     = "email"
	SortByStatus    = "status"
	SortByCreatedAt = "createdAt"
)

// SortTable is the static table of sortable invitation properties.
var SortTable = sorting.NewTable(
	sorting.Key[Invitation]{Name: SortByID, Compare: func(a, b Invitation) int { return sorting.CompareUUID(a.ID.UUID(), b.ID.UUID()) }},
	sorting.Key[Invitation]{Name: SortByEmail, Compare: func(a, b Invitation) int { return sorting.CompareFold(a.Email, b.Email) }},
	sorting.Key[Invitation]{Name: SortByStatus, Compare: func(a, b Invitation) int { return sorting.CompareOrdered(a.Status, b.Status) }},
	sorting.Key[Invitation]{Name: SortByCreatedAt, Compare: func(a, b Invitation) int { return sorting.CompareTime(a.CreatedAt, b.CreatedAt) }},
)
