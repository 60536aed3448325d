// Package mapcatalog implements the Map → Course → Filter graph: global
// status, the mandatory four filter permutations per course, and the
// tier/ranked-status invariants gating the record pipeline's filter lookup.
// Courses hold only their parent map id rather than an in-memory
// back-pointer.
package mapcatalog

import "fmt"

// GlobalStatus is the map's publication state.
type GlobalStatus string

const (
	NotGlobal GlobalStatus = "not_global"
	InTesting GlobalStatus = "in_testing"
	Global    GlobalStatus = "global"
)

// Mode is a run mode; exactly two exist, each course carrying one filter
// per (Mode, teleports) pair.
type Mode string

const (
	Vanilla Mode = "vanilla"
	Classic Mode = "classic"
)

// RankedStatus is a filter's eligibility for ranked points.
type RankedStatus string

const (
	Never    RankedStatus = "never"
	Unranked RankedStatus = "unranked"
	Ranked   RankedStatus = "ranked"
)

// MaxRankedTier is the highest tier ("Death") a filter may carry while
// still being Ranked.
const MaxRankedTier = 8

// Map is a row in the Maps table.
type Map struct {
	ID           uint32       `gorm:"primaryKey"`
	Name         string       `gorm:"not null;uniqueIndex"`
	GlobalStatus GlobalStatus `gorm:"column:global_status;not null;default:'not_global'"`
	WorkshopID   uint64       `gorm:"column:workshop_id"`
	Checksum     string       `gorm:"not null"`
	Mappers      []string     `gorm:"column:mappers;type:jsonb;serializer:json;not null"`
	Description  string
}

// TableName pins the GORM table name.
func (Map) TableName() string { return "maps" }

// Validate enforces the non-empty-mapper-set invariant.
func (m Map) Validate() error {
	if len(m.Mappers) == 0 {
		return fmt.Errorf("%w: map %q has no mappers", ErrEmptyMapperSet, m.Name)
	}
	return nil
}

// Course is a row in the Courses table, holding only its parent map id —
// no in-memory back-pointer to the owning Map.
type Course struct {
	ID      uint32  `gorm:"primaryKey"`
	MapID   uint32  `gorm:"column:map_id;not null;index"`
	Name    *string `gorm:"column:name"`
	Mappers []string `gorm:"column:mappers;type:jsonb;serializer:json;not null"`
}

// TableName pins the GORM table name.
func (Course) TableName() string { return "courses" }

// Validate enforces the non-empty-mapper-set invariant.
func (c Course) Validate() error {
	if len(c.Mappers) == 0 {
		return fmt.Errorf("%w: course %d has no mappers", ErrEmptyMapperSet, c.ID)
	}
	return nil
}

// Filter is a row in the Filters table, keyed by (course_id, mode,
// teleports); exactly four exist per course.
type Filter struct {
	ID           uint32       `gorm:"primaryKey"`
	CourseID     uint32       `gorm:"column:course_id;not null;uniqueIndex:idx_filter_key"`
	Mode         Mode         `gorm:"column:mode;not null;uniqueIndex:idx_filter_key"`
	Teleports    bool         `gorm:"column:teleports;not null;uniqueIndex:idx_filter_key"`
	Tier         uint8        `gorm:"not null"`
	RankedStatus RankedStatus `gorm:"column:ranked_status;not null;default:'unranked'"`
	Notes        string
}

// TableName pins the GORM table name.
func (Filter) TableName() string { return "filters" }

// Validate enforces the tier/ranked-status ceiling invariant.
func (f Filter) Validate() error {
	if f.RankedStatus == Ranked && f.Tier > MaxRankedTier {
		return fmt.Errorf("%w: filter %d has tier %d", ErrTierExceedsRankedCeiling, f.ID, f.Tier)
	}
	return nil
}

// filterPermutations lists the four mandatory (mode, teleports) pairs every
// course must carry exactly one filter for.
var filterPermutations = [4]struct {
	Mode      Mode
	Teleports bool
}{
	{Vanilla, false},
	{Vanilla, true},
	{Classic, false},
	{Classic, true},
}
