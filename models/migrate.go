package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Size{},
		&Style{},
		&Sole{},
		&MaterialColor{},
		&Product{},
		&ProductOption{},
		&ProductOptionValue{},
		&ProductVariant{},
		&ProductVariantOption{},
		&Setting{},
	)
}
