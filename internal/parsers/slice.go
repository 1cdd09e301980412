package parsers

import (
	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
)

// SliceHeaders is the Slice order export layout.
var SliceHeaders = []string{
	"Order #",
	"Order Date",
	"Customer",
	"Order Type",
	"Subtotal",
	"Prepaid Tip",
	"Tax",
	"Order Total",
	"Status",
}

var sliceDefaults = defaults{
	headers:   SliceHeaders,
	keyColumn: "order_number",
	// Slice writes "03-01-2025 01:47 AM".
	layouts: []string{
		"01-02-2006 03:04 PM",
		"01-02-2006 3:04 PM",
		"1-2-2006 3:04 PM",
		"01/02/2006 03:04 PM",
		"1/2/2006 3:04 PM",
	},
}

// Columns that feed unified fields; everything else is metadata.
var sliceUnified = columnSet(
	"order_number", "order_date", "customer", "order_type", "status", "order_total",
)

func newSliceParser(pc config.PlatformConfig) (Parser, error) {
	b, err := resolve(platform.Slice, pc, sliceDefaults)
	if err != nil {
		return nil, err
	}
	return &parser[*types.SliceOrder]{base: b, decode: decodeSlice, unify: unifySlice}, nil
}

func decodeSlice(d *decoder, key string) *types.SliceOrder {
	return &types.SliceOrder{
		OrderNumber: key,
		OrderDate:   d.timestamp("order_date"),
		Customer:    d.text("customer"),
		OrderType:   d.text("order_type"),
		Subtotal:    d.money("subtotal"),
		PrepaidTip:  d.money("prepaid_tip"),
		Tax:         d.money("tax"),
		OrderTotal:  d.money("order_total"),
		Status:      d.text("status"),
		SourceFile:  d.sourceFile,
		Extras:      d.extras(sliceUnified),
	}
}

// unifySlice maps a Slice order. Tip and tax stay in metadata only.
func unifySlice(o *types.SliceOrder) types.UnifiedRecord {
	return types.UnifiedRecord{
		Platform:        platform.Slice,
		ExternalOrderID: o.OrderNumber,
		OrderTimestamp:  o.OrderDate,
		Customer:        o.Customer,
		FulfillmentType: o.OrderType,
		OrderStatus:     o.Status,
		OrderTotal:      o.OrderTotal,
		Metadata:        o.Extras,
		SourceFile:      o.SourceFile,
	}
}
