package db

import (
	"github.com/terraincognita07/pitlane/internal/models"
	"gorm.io/gorm"
)

type CourseRepository struct {
	database *gorm.DB
}

func NewCourseRepository(database *gorm.DB) *CourseRepository {
	return &CourseRepository{database: database}
}

func (repo *CourseRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListPage returns one page of courses by id. offset and limit are taken
// as given.
func (repo *CourseRepository) ListPage(offset int, limit int) ([]models.Course, error) {
	courses := make([]models.Course, 0, limit)
	if err := repo.database.Order("id ASC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (repo *CourseRepository) ListAll() ([]models.Course, error) {
	courses := make([]models.Course, 0)
	if err := repo.database.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (repo *CourseRepository) FindByID(courseID uint) (models.Course, error) {
	var course models.Course
	if err := repo.database.First(&course, courseID).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}
