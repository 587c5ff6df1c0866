package db

import (
	"storefront/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every table owned by the service, in dependency order
var Models = []any{&domain.User{}, &domain.Profile{}, &domain.Product{}, &domain.Purchase{}}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	return backfillFolded(db)
}

// backfillFolded fills the search columns of rows written before they existed
func backfillFolded(db *gorm.DB) error {
	var batch []domain.Product
	return db.Where("name_folded IS NULL OR name_folded = '' OR category_folded IS NULL").
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				batch[i].Refold() // Recompute from Name and Category
				if err := tx.Model(&batch[i]).UpdateColumns(map[string]any{
					"name_folded":     batch[i].NameFolded,
					"category_folded": batch[i].CategoryFolded,
				}).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
