package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Events   *EventRepository
	Courses  *CourseRepository
	Contacts *ContactRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Events:   NewEventRepository(database),
		Courses:  NewCourseRepository(database),
		Contacts: NewContactRepository(database),
	}
}
