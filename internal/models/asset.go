package models

import "time"

// Asset is a data-catalog record. The store assigns ID and CreatedAt on
// insert; neither changes afterwards.
type Asset struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"column:asset_name;not null" json:"name"`
	Type             string    `gorm:"column:asset_type;not null" json:"type"`
	Owner            string    `gorm:"column:owner" json:"owner,omitempty"`
	SensitivityLevel string    `gorm:"column:sensitivity_level" json:"sensitivityLevel,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName keeps the table name stable regardless of gorm pluralization rules.
func (Asset) TableName() string {
	return "assets"
}
