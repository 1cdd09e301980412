package parsers

import (
	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
)

// UberHeaders is the Uber Eats Manager orders export layout.
var UberHeaders = []string{
	"Store", "External Store ID", "Country", "Country Code", "City",
	"Order ID", "Order UUID", "Order Status", "Delivery Status",
	"Scheduled?", "Completed?", "Online Order?", "Canceled By",
	"Menu Item Count", "Currency Code", "Ticket Size",
	"Date Ordered", "Time Customer Ordered", "Cancellation Time",
	"Time Merchant Accepted", "Time to Accept", "Original Prep Time",
	"Prep Time Increased?", "Increased Prep Time",
	"Courier Arrival Time", "Time Courier Started Trip", "Time Courier Delivered",
	"Total Delivery Time", "Courier Wait Time (Restaurant)", "Courier Wait Time (Eater)",
	"Total Prep & Handoff Time", "Order Duration",
	"Delivery Batch Type", "Fulfillment Type", "Order Channel",
	"Eats Brand", "Subscription Pass", "Workflow UUID",
}

var uberDefaults = defaults{
	headers:   UberHeaders,
	keyColumn: "order_uuid",
	layouts: []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05Z07:00",
		"01/02/2006 15:04",
		"1/2/2006 15:04",
		"1/2/2006 3:04 PM",
		"1/2/2006 3:04:05 PM",
	},
}

var uberUnified = columnSet(
	"order_uuid", "time_customer_ordered", "store", "fulfillment_type",
	"order_status", "ticket_size",
)

func newUberParser(pc config.PlatformConfig) (Parser, error) {
	b, err := resolve(platform.Uber, pc, uberDefaults)
	if err != nil {
		return nil, err
	}
	return &parser[*types.UberOrder]{base: b, decode: decodeUber, unify: unifyUber}, nil
}

func decodeUber(d *decoder, key string) *types.UberOrder {
	return &types.UberOrder{
		Store:           d.text("store"),
		ExternalStoreID: d.text("external_store_id"),
		Country:         d.text("country"),
		CountryCode:     d.text("country_code"),
		City:            d.text("city"),
		OrderID:         d.text("order_id"),
		OrderUUID:       key,
		OrderStatus:     d.text("order_status"),
		DeliveryStatus:  d.text("delivery_status"),
		Scheduled:       d.flag("scheduled"),
		Completed:       d.flag("completed"),
		OnlineOrder:     d.flag("online_order"),
		CanceledBy:      d.text("canceled_by"),
		MenuItemCount:   d.integer("menu_item_count"),
		CurrencyCode:    d.text("currency_code"),

		TicketSize:           d.money("ticket_size"),
		DateOrdered:          d.text("date_ordered"),
		TimeCustomerOrdered:  d.timestamp("time_customer_ordered"),
		CancellationTime:     d.text("cancellation_time"),
		TimeMerchantAccepted: d.text("time_merchant_accepted"),
		TimeToAccept:         d.number("time_to_accept"),
		OriginalPrepTime:     d.number("original_prep_time"),
		PrepTimeIncreased:    d.flag("prep_time_increased"),
		IncreasedPrepTime:    d.number("increased_prep_time"),

		CourierArrivalTime:     d.text("courier_arrival_time"),
		TimeCourierStartedTrip: d.text("time_courier_started_trip"),
		TimeCourierDelivered:   d.text("time_courier_delivered"),

		TotalDeliveryTime:         d.number("total_delivery_time"),
		CourierWaitTimeRestaurant: d.number("courier_wait_time_(restaurant)"),
		CourierWaitTimeEater:      d.number("courier_wait_time_(eater)"),
		TotalPrepHandoffTime:      d.number("total_prep_&_handoff_time"),
		OrderDuration:             d.number("order_duration"),

		DeliveryBatchType: d.text("delivery_batch_type"),
		FulfillmentType:   d.text("fulfillment_type"),
		OrderChannel:      d.text("order_channel"),
		EatsBrand:         d.text("eats_brand"),
		SubscriptionPass:  d.text("subscription_pass"),
		WorkflowUUID:      d.text("workflow_uuid"),

		SourceFile: d.sourceFile,
		Extras:     d.extras(uberUnified),
	}
}

// unifyUber maps an Uber order. Uber exports carry no customer, tip or tax.
func unifyUber(o *types.UberOrder) types.UnifiedRecord {
	return types.UnifiedRecord{
		Platform:        platform.Uber,
		ExternalOrderID: o.OrderUUID,
		OrderTimestamp:  o.TimeCustomerOrdered,
		Store:           o.Store,
		FulfillmentType: o.FulfillmentType,
		OrderStatus:     o.OrderStatus,
		OrderTotal:      o.TicketSize,
		Metadata:        o.Extras,
		SourceFile:      o.SourceFile,
	}
}
