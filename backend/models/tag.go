package models

import "gorm.io/gorm"

// Tag — пользовательская метка для группировки задач.
type Tag struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Name   string `gorm:"not null"`
	Color  string `gorm:"not null"` // hex, #RRGGBB
}
