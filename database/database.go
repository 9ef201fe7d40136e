package database

import (
	"gorm.io/gorm"
)

type Database struct {
	postRepo       *PostRepo
	experienceRepo *ExperienceRepo
	galleryRepo    *GalleryRepo
	readingLogRepo *ReadingLogRepo
	settingsRepo   *SettingsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo:       NewPostRepo(db),
		experienceRepo: NewExperienceRepo(db),
		galleryRepo:    NewGalleryRepo(db),
		readingLogRepo: NewReadingLogRepo(db),
		settingsRepo:   NewSettingsRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) GalleryRepo() *GalleryRepo {
	return d.galleryRepo
}

func (d Database) ReadingLogRepo() *ReadingLogRepo {
	return d.readingLogRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}
