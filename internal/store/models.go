package store

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// UnifiedRow is a row of the unified_trax table.
type UnifiedRow struct {
	ID              uint                `gorm:"primaryKey"`
	Platform        string              `gorm:"column:platform;size:16;not null;uniqueIndex:idx_unified_identity"`
	ExternalOrderID string              `gorm:"column:external_order_id;size:64;not null;uniqueIndex:idx_unified_identity"`
	OrderTimestamp  *time.Time          `gorm:"column:order_timestamp;index"`
	Customer        *string             `gorm:"column:customer;size:255"`
	Store           *string             `gorm:"column:store;size:255"`
	FulfillmentType *string             `gorm:"column:fulfillment_type;size:64"`
	OrderStatus     *string             `gorm:"column:order_status;size:64"`
	OrderTotal      decimal.NullDecimal `gorm:"column:order_total;type:decimal(12,2)"`
	Tip             decimal.NullDecimal `gorm:"column:tip;type:decimal(12,2)"`
	Tax             decimal.NullDecimal `gorm:"column:tax;type:decimal(12,2)"`
	Metadata        datatypes.JSON      `gorm:"column:metadata"`
	SourceFile      string              `gorm:"column:source_file;size:1024"`
	CreatedAt       time.Time
}

func (UnifiedRow) TableName() string { return "unified_trax" }
