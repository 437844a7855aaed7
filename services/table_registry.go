package services

import (
	"github.com/restobook/restobook/models"
	"gorm.io/gorm"
)

// TableRegistry is a read-only view of the active tables and their
// capacities. Table CRUD lives in the admin controllers; everything in the
// booking engine goes through here.
type TableRegistry struct {
	DB *gorm.DB
}

func NewTableRegistry(db *gorm.DB) *TableRegistry {
	return &TableRegistry{DB: db}
}

// ActiveTables returns all active tables ordered by capacity, smallest first.
func (tr *TableRegistry) ActiveTables() ([]models.Table, error) {
	var tables []models.Table
	if err := tr.DB.Where("is_active = ?", true).
		Order("capacity ASC, id ASC").
		Find(&tables).Error; err != nil {
		return nil, &StorageError{Op: "load active tables", Err: err}
	}
	return tables, nil
}
