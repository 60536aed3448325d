package mapcatalog

import "context"

// ListFilters scopes the GET /maps listing.
type ListFilters struct {
	GlobalStatus *GlobalStatus
	Limit        int
	Offset       int
}

// Repository defines data access for the map/course/filter graph.
type Repository interface {
	CreateMap(ctx context.Context, m *Map) error
	GetMapByID(ctx context.Context, id uint32) (*Map, error)
	GetMapByName(ctx context.Context, name string) (*Map, error)
	UpdateMap(ctx context.Context, m *Map) error
	ListMaps(ctx context.Context, filters ListFilters) ([]*Map, int64, error)

	// CreateCourse persists course together with exactly four filters in
	// one transaction, enforcing ErrIncompleteFilterSet.
	CreateCourse(ctx context.Context, course *Course, filters [4]*Filter) error
	GetCourseByID(ctx context.Context, id uint32) (*Course, error)
	GetCourseByName(ctx context.Context, mapID uint32, name string) (*Course, error)
	ListCoursesByMap(ctx context.Context, mapID uint32) ([]*Course, error)
	UpdateCourse(ctx context.Context, course *Course) error

	GetFilter(ctx context.Context, courseID uint32, mode Mode, teleports bool) (*Filter, error)
	GetFilterByID(ctx context.Context, id uint32) (*Filter, error)
	ListFiltersByCourse(ctx context.Context, courseID uint32) ([]*Filter, error)
	UpdateFilter(ctx context.Context, f *Filter) error
}
