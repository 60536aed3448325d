package mapcatalog

import "errors"

var (
	ErrMapNotFound    = errors.New("mapcatalog: map not found")
	ErrCourseNotFound = errors.New("mapcatalog: course not found")
	ErrFilterNotFound = errors.New("mapcatalog: filter not found")

	ErrDuplicateMapName = errors.New("mapcatalog: map name already in use")

	ErrEmptyMapperSet = errors.New("mapcatalog: mapper set must be non-empty")

	// ErrIncompleteFilterSet is returned when a course is created without
	// exactly the four mandatory filter permutations.
	ErrIncompleteFilterSet = errors.New("mapcatalog: course must carry exactly four filters, one per (mode, teleports) permutation")

	ErrTierExceedsRankedCeiling = errors.New("mapcatalog: ranked filters may not exceed the Death tier")
)
