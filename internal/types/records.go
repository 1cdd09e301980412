package types

import (
	"time"

	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SLICE
// =============================================================================

// SliceOrder is one row of a Slice order export.
type SliceOrder struct {
	ID          uint                `gorm:"primaryKey"`
	OrderNumber string              `gorm:"column:order_number;size:64;not null;uniqueIndex"`
	OrderDate   *time.Time          `gorm:"column:order_date"`
	Customer    *string             `gorm:"column:customer;size:255"`
	OrderType   *string             `gorm:"column:order_type;size:64"`
	Subtotal    decimal.NullDecimal `gorm:"column:subtotal;type:decimal(12,2)"`
	PrepaidTip  decimal.NullDecimal `gorm:"column:prepaid_tip;type:decimal(12,2)"`
	Tax         decimal.NullDecimal `gorm:"column:tax;type:decimal(12,2)"`
	OrderTotal  decimal.NullDecimal `gorm:"column:order_total;type:decimal(12,2)"`
	Status      *string             `gorm:"column:status;size:64"`
	SourceFile  string              `gorm:"column:source_file;size:1024"`
	CreatedAt   time.Time

	Extras map[string]string `gorm:"-"`
}

func (SliceOrder) TableName() string { return "slice_trax" }
func (*SliceOrder) Platform() platform.Platform { return platform.Slice }
func (o *SliceOrder) NaturalKey() string { return o.OrderNumber }
func (*SliceOrder) NaturalKeyColumn() string { return "order_number" }

// =============================================================================
// SQUARE
// =============================================================================

// SquareTransaction is one row of a Square transactions export.
type SquareTransaction struct {
	ID              uint       `gorm:"primaryKey"`
	TransactionDate *string    `gorm:"column:transaction_date;size:32"`
	TransactionTime *string    `gorm:"column:transaction_time;size:32"`
	TimeZone        *string    `gorm:"column:time_zone;size:64"`
	TransactedAt    *time.Time `gorm:"column:transacted_at"`

	GrossSales     decimal.NullDecimal `gorm:"column:gross_sales;type:decimal(12,2)"`
	Discounts      decimal.NullDecimal `gorm:"column:discounts;type:decimal(12,2)"`
	ServiceCharges decimal.NullDecimal `gorm:"column:service_charges;type:decimal(12,2)"`
	NetSales       decimal.NullDecimal `gorm:"column:net_sales;type:decimal(12,2)"`
	GiftCardSales  decimal.NullDecimal `gorm:"column:gift_card_sales;type:decimal(12,2)"`
	Tax            decimal.NullDecimal `gorm:"column:tax;type:decimal(12,2)"`
	Tip            decimal.NullDecimal `gorm:"column:tip;type:decimal(12,2)"`
	PartialRefunds decimal.NullDecimal `gorm:"column:partial_refunds;type:decimal(12,2)"`
	TotalCollected decimal.NullDecimal `gorm:"column:total_collected;type:decimal(12,2)"`

	Source           *string             `gorm:"column:source;size:128"`
	Card             decimal.NullDecimal `gorm:"column:card;type:decimal(12,2)"`
	CardEntryMethods *string             `gorm:"column:card_entry_methods;size:128"`
	Cash             decimal.NullDecimal `gorm:"column:cash;type:decimal(12,2)"`
	SquareGiftCard   decimal.NullDecimal `gorm:"column:square_gift_card;type:decimal(12,2)"`
	OtherTender      decimal.NullDecimal `gorm:"column:other_tender;type:decimal(12,2)"`
	OtherTenderType  *string             `gorm:"column:other_tender_type;size:128"`
	TenderNote       *string             `gorm:"column:tender_note;size:512"`
	Fees             decimal.NullDecimal `gorm:"column:fees;type:decimal(12,2)"`
	NetTotal         decimal.NullDecimal `gorm:"column:net_total;type:decimal(12,2)"`

	TransactionID string  `gorm:"column:transaction_id;size:64;not null;uniqueIndex"`
	PaymentID     *string `gorm:"column:payment_id;size:64"`
	CardBrand     *string `gorm:"column:card_brand;size:64"`
	PanSuffix     *string `gorm:"column:pan_suffix;size:16"`
	DeviceName    *string `gorm:"column:device_name;size:128"`
	StaffName     *string `gorm:"column:staff_name;size:128"`
	StaffID       *string `gorm:"column:staff_id;size:64"`
	Details       *string `gorm:"column:details;size:1024"`
	Description   *string `gorm:"column:description;size:1024"`
	EventType     *string `gorm:"column:event_type;size:64"`
	Location      *string `gorm:"column:location;size:255"`
	DiningOption  *string `gorm:"column:dining_option;size:64"`

	CustomerID          *string `gorm:"column:customer_id;size:64"`
	CustomerName        *string `gorm:"column:customer_name;size:255"`
	CustomerReferenceID *string `gorm:"column:customer_reference_id;size:64"`
	DeviceNickname      *string `gorm:"column:device_nickname;size:128"`

	ThirdPartyFees    decimal.NullDecimal `gorm:"column:third_party_fees;type:decimal(12,2)"`
	DepositID         *string             `gorm:"column:deposit_id;size:64"`
	DepositDate       *time.Time          `gorm:"column:deposit_date"`
	DepositDetails    *string             `gorm:"column:deposit_details;size:512"`
	FeePercentageRate decimal.NullDecimal `gorm:"column:fee_percentage_rate;type:decimal(9,4)"`
	FeeFixedRate      decimal.NullDecimal `gorm:"column:fee_fixed_rate;type:decimal(12,2)"`
	RefundReason      *string             `gorm:"column:refund_reason;size:512"`
	DiscountName      *string             `gorm:"column:discount_name;size:255"`
	TransactionStatus *string             `gorm:"column:transaction_status;size:64"`
	CashApp           decimal.NullDecimal `gorm:"column:cash_app;type:decimal(12,2)"`
	OrderReferenceID  *string             `gorm:"column:order_reference_id;size:64"`
	FulfillmentNote   *string             `gorm:"column:fulfillment_note;size:512"`
	FreeProcessing    bool                `gorm:"column:free_processing_applied"`
	Channel           *string             `gorm:"column:channel;size:128"`
	UnattributedTips  decimal.NullDecimal `gorm:"column:unattributed_tips;type:decimal(12,2)"`

	SourceFile string `gorm:"column:source_file;size:1024"`
	CreatedAt  time.Time

	Extras map[string]string `gorm:"-"`
}

func (SquareTransaction) TableName() string { return "square_trax" }
func (*SquareTransaction) Platform() platform.Platform { return platform.Square }
func (t *SquareTransaction) NaturalKey() string { return t.TransactionID }
func (*SquareTransaction) NaturalKeyColumn() string { return "transaction_id" }

// =============================================================================
// UBER EATS
// =============================================================================

// UberOrder is one row of an Uber Eats orders export. Operational times
// other than the order time are kept as the text Uber exports.
type UberOrder struct {
	ID              uint    `gorm:"primaryKey"`
	Store           *string `gorm:"column:store;size:255"`
	ExternalStoreID *string `gorm:"column:external_store_id;size:64"`
	Country         *string `gorm:"column:country;size:64"`
	CountryCode     *string `gorm:"column:country_code;size:8"`
	City            *string `gorm:"column:city;size:128"`
	OrderID         *string `gorm:"column:order_id;size:64"`
	OrderUUID       string  `gorm:"column:order_uuid;size:64;not null;uniqueIndex"`
	OrderStatus     *string `gorm:"column:order_status;size:64"`
	DeliveryStatus  *string `gorm:"column:delivery_status;size:64"`
	Scheduled       bool    `gorm:"column:scheduled"`
	Completed       bool    `gorm:"column:completed"`
	OnlineOrder     bool    `gorm:"column:online_order"`
	CanceledBy      *string `gorm:"column:canceled_by;size:64"`
	MenuItemCount   *int64  `gorm:"column:menu_item_count"`
	CurrencyCode    *string `gorm:"column:currency_code;size:8"`

	TicketSize           decimal.NullDecimal `gorm:"column:ticket_size;type:decimal(12,2)"`
	DateOrdered          *string             `gorm:"column:date_ordered;size:32"`
	TimeCustomerOrdered  *time.Time          `gorm:"column:time_customer_ordered"`
	CancellationTime     *string             `gorm:"column:cancellation_time;size:64"`
	TimeMerchantAccepted *string             `gorm:"column:time_merchant_accepted;size:64"`
	TimeToAccept         decimal.NullDecimal `gorm:"column:time_to_accept;type:decimal(12,2)"`
	OriginalPrepTime     decimal.NullDecimal `gorm:"column:original_prep_time;type:decimal(12,2)"`
	PrepTimeIncreased    bool                `gorm:"column:prep_time_increased"`
	IncreasedPrepTime    decimal.NullDecimal `gorm:"column:increased_prep_time;type:decimal(12,2)"`

	CourierArrivalTime     *string `gorm:"column:courier_arrival_time;size:64"`
	TimeCourierStartedTrip *string `gorm:"column:time_courier_started_trip;size:64"`
	TimeCourierDelivered   *string `gorm:"column:time_courier_delivered;size:64"`

	TotalDeliveryTime         decimal.NullDecimal `gorm:"column:total_delivery_time;type:decimal(12,2)"`
	CourierWaitTimeRestaurant decimal.NullDecimal `gorm:"column:courier_wait_time_restaurant;type:decimal(12,2)"`
	CourierWaitTimeEater      decimal.NullDecimal `gorm:"column:courier_wait_time_eater;type:decimal(12,2)"`
	TotalPrepHandoffTime      decimal.NullDecimal `gorm:"column:total_prep_handoff_time;type:decimal(12,2)"`
	OrderDuration             decimal.NullDecimal `gorm:"column:order_duration;type:decimal(12,2)"`

	DeliveryBatchType *string `gorm:"column:delivery_batch_type;size:64"`
	FulfillmentType   *string `gorm:"column:fulfillment_type;size:64"`
	OrderChannel      *string `gorm:"column:order_channel;size:64"`
	EatsBrand         *string `gorm:"column:eats_brand;size:128"`
	SubscriptionPass  *string `gorm:"column:subscription_pass;size:64"`
	WorkflowUUID      *string `gorm:"column:workflow_uuid;size:64"`

	SourceFile string `gorm:"column:source_file;size:1024"`
	CreatedAt  time.Time

	Extras map[string]string `gorm:"-"`
}

func (UberOrder) TableName() string { return "uber_trax" }
func (*UberOrder) Platform() platform.Platform { return platform.Uber }
func (o *UberOrder) NaturalKey() string { return o.OrderUUID }
func (*UberOrder) NaturalKeyColumn() string { return "order_uuid" }
