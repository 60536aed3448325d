package mapcatalog

import (
	"context"
	"fmt"
)

// Service is the map/course/filter catalogue's business logic: invariant
// enforcement at create/update time, and the name/id resolution the WS
// dispatcher's WantMapInfo/WantCourseTop handlers and the record pipeline's
// filter lookup rely on.
type Service interface {
	CreateMap(ctx context.Context, m *Map) error
	GetMap(ctx context.Context, id uint32) (*Map, error)
	GetMapByName(ctx context.Context, name string) (*Map, error)
	UpdateMap(ctx context.Context, m *Map) error
	ListMaps(ctx context.Context, filters ListFilters) ([]*Map, int64, error)

	// CreateCourse validates the four filters cover exactly the mandatory
	// permutations before delegating to the repository.
	CreateCourse(ctx context.Context, course *Course, filters [4]*Filter) error
	GetCourse(ctx context.Context, id uint32) (*Course, error)
	GetCourseByName(ctx context.Context, mapID uint32, name string) (*Course, error)
	ListCourses(ctx context.Context, mapID uint32) ([]*Course, error)
	UpdateCourse(ctx context.Context, course *Course) error

	UpdateFilter(ctx context.Context, f *Filter) error
	GetFilter(ctx context.Context, id uint32) (*Filter, error)

	// ResolveFilter is the single entry point the record pipeline and the
	// WantCourseTop/WantPersonalBest/WantWorldRecords WS handlers use to
	// turn (course id, mode, teleports) into the filter carrying ground
	// truth for that permutation.
	ResolveFilter(ctx context.Context, courseID uint32, mode Mode, teleports bool) (*Filter, error)
}

type service struct {
	repo Repository
}

// NewService constructs the mapcatalog Service over a Repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateMap(ctx context.Context, m *Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.repo.CreateMap(ctx, m)
}

func (s *service) GetMap(ctx context.Context, id uint32) (*Map, error) {
	return s.repo.GetMapByID(ctx, id)
}

func (s *service) GetMapByName(ctx context.Context, name string) (*Map, error) {
	return s.repo.GetMapByName(ctx, name)
}

func (s *service) UpdateMap(ctx context.Context, m *Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateMap(ctx, m)
}

func (s *service) ListMaps(ctx context.Context, filters ListFilters) ([]*Map, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	return s.repo.ListMaps(ctx, filters)
}

func (s *service) CreateCourse(ctx context.Context, course *Course, filters [4]*Filter) error {
	if err := course.Validate(); err != nil {
		return err
	}
	if err := validateFilterSet(course, filters); err != nil {
		return err
	}
	return s.repo.CreateCourse(ctx, course, filters)
}

// validateFilterSet enforces that filters covers exactly the four mandatory
// (mode, teleports) permutations for course, each within the tier/ranked
// ceiling.
func validateFilterSet(course *Course, filters [4]*Filter) error {
	seen := make(map[Mode]map[bool]bool, 2)
	for _, f := range filters {
		if f == nil {
			return ErrIncompleteFilterSet
		}
		if f.CourseID != course.ID {
			return fmt.Errorf("%w: filter bound to course %d, expected %d", ErrIncompleteFilterSet, f.CourseID, course.ID)
		}
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Mode] == nil {
			seen[f.Mode] = make(map[bool]bool, 2)
		}
		if seen[f.Mode][f.Teleports] {
			return fmt.Errorf("%w: duplicate (%s, teleports=%v)", ErrIncompleteFilterSet, f.Mode, f.Teleports)
		}
		seen[f.Mode][f.Teleports] = true
	}
	for _, perm := range filterPermutations {
		if !seen[perm.Mode][perm.Teleports] {
			return fmt.Errorf("%w: missing (%s, teleports=%v)", ErrIncompleteFilterSet, perm.Mode, perm.Teleports)
		}
	}
	return nil
}

func (s *service) GetCourse(ctx context.Context, id uint32) (*Course, error) {
	return s.repo.GetCourseByID(ctx, id)
}

func (s *service) GetCourseByName(ctx context.Context, mapID uint32, name string) (*Course, error) {
	return s.repo.GetCourseByName(ctx, mapID, name)
}

func (s *service) ListCourses(ctx context.Context, mapID uint32) ([]*Course, error) {
	return s.repo.ListCoursesByMap(ctx, mapID)
}

func (s *service) UpdateCourse(ctx context.Context, course *Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateCourse(ctx, course)
}

func (s *service) UpdateFilter(ctx context.Context, f *Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateFilter(ctx, f)
}

func (s *service) ResolveFilter(ctx context.Context, courseID uint32, mode Mode, teleports bool) (*Filter, error) {
	return s.repo.GetFilter(ctx, courseID, mode, teleports)
}

func (s *service) GetFilter(ctx context.Context, id uint32) (*Filter, error) {
	return s.repo.GetFilterByID(ctx, id)
}
