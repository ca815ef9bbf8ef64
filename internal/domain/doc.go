// Package domain holds what every wishlist entity shares: the error
// sentinels the HTTP layer maps to statuses, field validation, UUID
// parsing and the Step and WriteStager contracts that actors stage their
// writes through.
//
// Entities live in sub-packages named after them (user, list, item,
// favorite, reservation, invitation). Visibility decisions are made in
// domain/access; ordering of lists and items in domain/sorting.
package domain
