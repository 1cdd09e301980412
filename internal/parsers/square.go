package parsers

import (
	"github.com/bwilly/SuperSliceETL/internal/coerce"
	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
)

// SquareHeaders is the Square "Transactions" export layout.
var SquareHeaders = []string{
	"Date", "Time", "Time Zone",
	"Gross Sales", "Discounts", "Service Charges", "Net Sales", "Gift Card Sales",
	"Tax", "Tip", "Partial Refunds", "Total Collected",
	"Source", "Card", "Card Entry Methods", "Cash", "Square Gift Card",
	"Other Tender", "Other Tender Type", "Tender Note", "Fees", "Net Total",
	"Transaction ID", "Payment ID", "Card Brand", "PAN Suffix",
	"Device Name", "Staff Name", "Staff ID", "Details", "Description",
	"Event Type", "Location", "Dining Option",
	"Customer ID", "Customer Name", "Customer Reference ID", "Device Nickname",
	"Third Party Fees", "Deposit ID", "Deposit Date", "Deposit Details",
	"Fee Percentage Rate", "Fee Fixed Rate", "Refund Reason", "Discount Name",
	"Transaction Status", "Cash App", "Order Reference ID", "Fulfillment Note",
	"Free Processing Applied", "Channel", "Unattributed Tips",
}

var squareDefaults = defaults{
	headers:   SquareHeaders,
	keyColumn: "transaction_id",
	layouts: []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"2006-01-02",
		"01/02/2006",
		"1/2/2006",
	},
}

// The store and fulfillment_type sources (location, dining_option) are
// provisional until confirmed against live Square data.
var squareUnified = columnSet(
	"date", "time", "transaction_id", "customer_name", "location",
	"dining_option", "transaction_status", "net_total", "tip", "tax",
)

func newSquareParser(pc config.PlatformConfig) (Parser, error) {
	b, err := resolve(platform.Square, pc, squareDefaults)
	if err != nil {
		return nil, err
	}
	return &parser[*types.SquareTransaction]{base: b, decode: decodeSquare, unify: unifySquare}, nil
}

func decodeSquare(d *decoder, key string) *types.SquareTransaction {
	return &types.SquareTransaction{
		TransactionDate: d.text("date"),
		TransactionTime: d.text("time"),
		TimeZone:        d.text("time_zone"),
		TransactedAt:    d.timestampValue("date", coerce.JoinDateTime(d.row["date"], d.row["time"])),

		GrossSales:     d.money("gross_sales"),
		Discounts:      d.money("discounts"),
		ServiceCharges: d.money("service_charges"),
		NetSales:       d.money("net_sales"),
		GiftCardSales:  d.money("gift_card_sales"),
		Tax:            d.money("tax"),
		Tip:            d.money("tip"),
		PartialRefunds: d.money("partial_refunds"),
		TotalCollected: d.money("total_collected"),

		Source:           d.text("source"),
		Card:             d.money("card"),
		CardEntryMethods: d.text("card_entry_methods"),
		Cash:             d.money("cash"),
		SquareGiftCard:   d.money("square_gift_card"),
		OtherTender:      d.money("other_tender"),
		OtherTenderType:  d.text("other_tender_type"),
		TenderNote:       d.text("tender_note"),
		Fees:             d.money("fees"),
		NetTotal:         d.money("net_total"),

		TransactionID: key,
		PaymentID:     d.text("payment_id"),
		CardBrand:     d.text("card_brand"),
		PanSuffix:     d.text("pan_suffix"),
		DeviceName:    d.text("device_name"),
		StaffName:     d.text("staff_name"),
		StaffID:       d.text("staff_id"),
		Details:       d.text("details"),
		Description:   d.text("description"),
		EventType:     d.text("event_type"),
		Location:      d.text("location"),
		DiningOption:  d.text("dining_option"),

		CustomerID:          d.text("customer_id"),
		CustomerName:        d.text("customer_name"),
		CustomerReferenceID: d.text("customer_reference_id"),
		DeviceNickname:      d.text("device_nickname"),

		ThirdPartyFees:    d.money("third_party_fees"),
		DepositID:         d.text("deposit_id"),
		DepositDate:       d.timestamp("deposit_date"),
		DepositDetails:    d.text("deposit_details"),
		FeePercentageRate: d.number("fee_percentage_rate"),
		FeeFixedRate:      d.money("fee_fixed_rate"),
		RefundReason:      d.text("refund_reason"),
		DiscountName:      d.text("discount_name"),
		TransactionStatus: d.text("transaction_status"),
		CashApp:           d.money("cash_app"),
		OrderReferenceID:  d.text("order_reference_id"),
		FulfillmentNote:   d.text("fulfillment_note"),
		FreeProcessing:    d.flag("free_processing_applied"),
		Channel:           d.text("channel"),
		UnattributedTips:  d.money("unattributed_tips"),

		SourceFile: d.sourceFile,
		Extras:     d.extras(squareUnified),
	}
}

func unifySquare(t *types.SquareTransaction) types.UnifiedRecord {
	return types.UnifiedRecord{
		Platform:        platform.Square,
		ExternalOrderID: t.TransactionID,
		OrderTimestamp:  t.TransactedAt,
		Customer:        t.CustomerName,
		Store:           t.Location,
		FulfillmentType: t.DiningOption,
		OrderStatus:     t.TransactionStatus,
		OrderTotal:      t.NetTotal,
		Tip:             t.Tip,
		Tax:             t.Tax,
		Metadata:        t.Extras,
		SourceFile:      t.SourceFile,
	}
}
