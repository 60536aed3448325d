package repository

import (
	"fmt"

	"context"

	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/mapcatalog"
)

// MapCatalogGormRepository implements mapcatalog.Repository using GORM.
type MapCatalogGormRepository struct {
	db *gorm.DB
}

// NewMapCatalogGormRepository constructs a MapCatalogGormRepository.
func NewMapCatalogGormRepository(db *gorm.DB) mapcatalog.Repository {
	return &MapCatalogGormRepository{db: db}
}

func (r *MapCatalogGormRepository) CreateMap(ctx context.Context, m *mapcatalog.Map) error {
	if err := dbFromContext(ctx, r.db).Create(m).Error; err != nil {
		return fmt.Errorf("mapcatalog: create map: %w", err)
	}
	return nil
}

func (r *MapCatalogGormRepository) GetMapByID(ctx context.Context, id uint32) (*mapcatalog.Map, error) {
	var m mapcatalog.Map
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get map by id: %w", err)
	}
	return &m, nil
}

func (r *MapCatalogGormRepository) GetMapByName(ctx context.Context, name string) (*mapcatalog.Map, error) {
	var m mapcatalog.Map
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get map by name: %w", err)
	}
	return &m, nil
}

func (r *MapCatalogGormRepository) UpdateMap(ctx context.Context, m *mapcatalog.Map) error {
	if err := dbFromContext(ctx, r.db).Save(m).Error; err != nil {
		return fmt.Errorf("mapcatalog: update map: %w", err)
	}
	return nil
}

func (r *MapCatalogGormRepository) ListMaps(ctx context.Context, filters mapcatalog.ListFilters) ([]*mapcatalog.Map, int64, error) {
	db := dbFromContext(ctx, r.db).Model(&mapcatalog.Map{})
	if filters.GlobalStatus != nil {
		db = db.Where("global_status = ?", *filters.GlobalStatus)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("mapcatalog: list maps: count: %w", err)
	}

	var rows []*mapcatalog.Map
	err := db.Order("name ASC").Limit(filters.Limit).Offset(filters.Offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("mapcatalog: list maps: %w", err)
	}
	return rows, total, nil
}

func (r *MapCatalogGormRepository) CreateCourse(ctx context.Context, course *mapcatalog.Course, filters [4]*mapcatalog.Filter) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return fmt.Errorf("mapcatalog: create course: %w", err)
		}
		for _, f := range filters {
			f.CourseID = course.ID
			if err := tx.Create(f).Error; err != nil {
				return fmt.Errorf("mapcatalog: create filter: %w", err)
			}
		}
		return nil
	})
}

func (r *MapCatalogGormRepository) GetCourseByID(ctx context.Context, id uint32) (*mapcatalog.Course, error) {
	var c mapcatalog.Course
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get course by id: %w", err)
	}
	return &c, nil
}

func (r *MapCatalogGormRepository) GetCourseByName(ctx context.Context, mapID uint32, name string) (*mapcatalog.Course, error) {
	var c mapcatalog.Course
	err := dbFromContext(ctx, r.db).Where("map_id = ? AND name = ?", mapID, name).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get course by name: %w", err)
	}
	return &c, nil
}

func (r *MapCatalogGormRepository) ListCoursesByMap(ctx context.Context, mapID uint32) ([]*mapcatalog.Course, error) {
	var rows []*mapcatalog.Course
	err := dbFromContext(ctx, r.db).Where("map_id = ?", mapID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: list courses: %w", err)
	}
	return rows, nil
}

func (r *MapCatalogGormRepository) UpdateCourse(ctx context.Context, course *mapcatalog.Course) error {
	if err := dbFromContext(ctx, r.db).Save(course).Error; err != nil {
		return fmt.Errorf("mapcatalog: update course: %w", err)
	}
	return nil
}

func (r *MapCatalogGormRepository) GetFilter(ctx context.Context, courseID uint32, mode mapcatalog.Mode, teleports bool) (*mapcatalog.Filter, error) {
	var f mapcatalog.Filter
	err := dbFromContext(ctx, r.db).
		Where("course_id = ? AND mode = ? AND teleports = ?", courseID, mode, teleports).
		First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrFilterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get filter: %w", err)
	}
	return &f, nil
}

func (r *MapCatalogGormRepository) GetFilterByID(ctx context.Context, id uint32) (*mapcatalog.Filter, error) {
	var f mapcatalog.Filter
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return nil, mapcatalog.ErrFilterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: get filter by id: %w", err)
	}
	return &f, nil
}

func (r *MapCatalogGormRepository) ListFiltersByCourse(ctx context.Context, courseID uint32) ([]*mapcatalog.Filter, error) {
	var rows []*mapcatalog.Filter
	err := dbFromContext(ctx, r.db).Where("course_id = ?", courseID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("mapcatalog: list filters: %w", err)
	}
	return rows, nil
}

func (r *MapCatalogGormRepository) UpdateFilter(ctx context.Context, f *mapcatalog.Filter) error {
	if err := dbFromContext(ctx, r.db).Save(f).Error; err != nil {
		return fmt.Errorf("mapcatalog: update filter: %w", err)
	}
	return nil
}
