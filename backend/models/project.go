package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	Status      string `gorm:"default:ACTIVE"` // ACTIVE, COMPLETED, ARCHIVED
	Tasks       []Task
}
