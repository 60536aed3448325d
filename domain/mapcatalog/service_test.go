package mapcatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository; GetFilter/GetFilterByID each count
// calls so tests can assert the caching decorator actually avoids hitting
// it on a cache hit.
type fakeRepo struct {
	courses        map[uint32]*Course
	filters        map[uint32]*Filter
	filterByKey    map[[3]interface{}]*Filter
	getFilterCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		courses:     map[uint32]*Course{},
		filters:     map[uint32]*Filter{},
		filterByKey: map[[3]interface{}]*Filter{},
	}
}

func (r *fakeRepo) CreateMap(context.Context, *Map) error            { return nil }
func (r *fakeRepo) GetMapByID(context.Context, uint32) (*Map, error)  { return nil, ErrMapNotFound }
func (r *fakeRepo) GetMapByName(context.Context, string) (*Map, error) {
	return nil, ErrMapNotFound
}
func (r *fakeRepo) UpdateMap(context.Context, *Map) error { return nil }
func (r *fakeRepo) ListMaps(context.Context, ListFilters) ([]*Map, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) CreateCourse(_ context.Context, course *Course, filters [4]*Filter) error {
	r.courses[course.ID] = course
	for _, f := range filters {
		r.filters[f.ID] = f
		r.filterByKey[[3]interface{}{f.CourseID, f.Mode, f.Teleports}] = f
	}
	return nil
}
func (r *fakeRepo) GetCourseByID(_ context.Context, id uint32) (*Course, error) {
	if c, ok := r.courses[id]; ok {
		return c, nil
	}
	return nil, ErrCourseNotFound
}
func (r *fakeRepo) GetCourseByName(context.Context, uint32, string) (*Course, error) {
	return nil, ErrCourseNotFound
}
func (r *fakeRepo) ListCoursesByMap(context.Context, uint32) ([]*Course, error) { return nil, nil }
func (r *fakeRepo) UpdateCourse(context.Context, *Course) error                 { return nil }

func (r *fakeRepo) GetFilter(_ context.Context, courseID uint32, mode Mode, teleports bool) (*Filter, error) {
	r.getFilterCalls++
	if f, ok := r.filterByKey[[3]interface{}{courseID, mode, teleports}]; ok {
		return f, nil
	}
	return nil, ErrFilterNotFound
}
func (r *fakeRepo) GetFilterByID(_ context.Context, id uint32) (*Filter, error) {
	r.getFilterCalls++
	if f, ok := r.filters[id]; ok {
		return f, nil
	}
	return nil, ErrFilterNotFound
}
func (r *fakeRepo) ListFiltersByCourse(context.Context, uint32) ([]*Filter, error) { return nil, nil }
func (r *fakeRepo) UpdateFilter(_ context.Context, f *Filter) error {
	r.filters[f.ID] = f
	return nil
}

func completeFilterSet(courseID uint32) [4]*Filter {
	return [4]*Filter{
		{ID: 1, CourseID: courseID, Mode: Vanilla, Teleports: false, Tier: 3, RankedStatus: Ranked},
		{ID: 2, CourseID: courseID, Mode: Vanilla, Teleports: true, Tier: 3, RankedStatus: Ranked},
		{ID: 3, CourseID: courseID, Mode: Classic, Teleports: false, Tier: 3, RankedStatus: Ranked},
		{ID: 4, CourseID: courseID, Mode: Classic, Teleports: true, Tier: 3, RankedStatus: Ranked},
	}
}

func TestCreateCourse_RequiresAllFourPermutations(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	course := &Course{ID: 1, MapID: 1, Mappers: []string{"alice"}}

	t.Run("complete set accepted", func(t *testing.T) {
		filters := completeFilterSet(1)
		err := svc.CreateCourse(context.Background(), course, filters)
		require.NoError(t, err)
	})

	t.Run("missing permutation rejected", func(t *testing.T) {
		filters := completeFilterSet(2)
		filters[3] = nil
		err := svc.CreateCourse(context.Background(), &Course{ID: 2, MapID: 1, Mappers: []string{"alice"}}, filters)
		require.ErrorIs(t, err, ErrIncompleteFilterSet)
	})

	t.Run("duplicate permutation rejected", func(t *testing.T) {
		filters := completeFilterSet(3)
		filters[1] = &Filter{ID: 99, CourseID: 3, Mode: Vanilla, Teleports: false, Tier: 3, RankedStatus: Ranked}
		err := svc.CreateCourse(context.Background(), &Course{ID: 3, MapID: 1, Mappers: []string{"alice"}}, filters)
		require.ErrorIs(t, err, ErrIncompleteFilterSet)
	})

	t.Run("filter bound to wrong course rejected", func(t *testing.T) {
		filters := completeFilterSet(4)
		filters[0].CourseID = 999
		err := svc.CreateCourse(context.Background(), &Course{ID: 4, MapID: 1, Mappers: []string{"alice"}}, filters)
		require.ErrorIs(t, err, ErrIncompleteFilterSet)
	})
}

func TestFilter_Validate_RankedTierCeiling(t *testing.T) {
	t.Run("ranked within ceiling ok", func(t *testing.T) {
		f := Filter{Tier: MaxRankedTier, RankedStatus: Ranked}
		require.NoError(t, f.Validate())
	})

	t.Run("ranked beyond ceiling rejected", func(t *testing.T) {
		f := Filter{Tier: MaxRankedTier + 1, RankedStatus: Ranked}
		require.ErrorIs(t, f.Validate(), ErrTierExceedsRankedCeiling)
	})

	t.Run("unranked beyond ceiling allowed", func(t *testing.T) {
		f := Filter{Tier: MaxRankedTier + 5, RankedStatus: Unranked}
		require.NoError(t, f.Validate())
	})
}

func TestMap_Validate_RequiresMappers(t *testing.T) {
	t.Run("empty mapper set rejected", func(t *testing.T) {
		m := Map{Name: "kz_test"}
		require.ErrorIs(t, m.Validate(), ErrEmptyMapperSet)
	})

	t.Run("non-empty mapper set accepted", func(t *testing.T) {
		m := Map{Name: "kz_test", Mappers: []string{"alice"}}
		require.NoError(t, m.Validate())
	})
}

func TestCachingService_ResolveFilterHitsRepoOnlyOnce(t *testing.T) {
	repo := newFakeRepo()
	filters := completeFilterSet(1)
	require.NoError(t, repo.CreateCourse(context.Background(), &Course{ID: 1, MapID: 1, Mappers: []string{"a"}}, filters))

	c := newTestCache(t)
	defer c.Close()

	svc := NewCachingService(NewService(repo), c)

	first, err := svc.ResolveFilter(context.Background(), 1, Vanilla, false)
	require.NoError(t, err)
	require.Equal(t, uint32(1), first.ID)
	require.Equal(t, 1, repo.getFilterCalls)

	second, err := svc.ResolveFilter(context.Background(), 1, Vanilla, false)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.getFilterCalls, "second resolve must be served from cache")
}

func TestCachingService_NilCacheBypassesDecoration(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCachingService(NewService(repo), nil)
	_, ok := svc.(*cachingService)
	require.False(t, ok, "a nil cache must return the inner service undecorated")
}
