package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType identifies the schema of an envelope payload.
type EventType string

const (
	EventEmployeeCreated       EventType = "EmployeeCreated"
	EventEmployeeUpdated       EventType = "EmployeeUpdated"
	EventEmployeeTerminated    EventType = "EmployeeTerminated"
	EventPayrollProcessed      EventType = "PayrollProcessed"
	EventPayrollApproved       EventType = "PayrollApproved"
	EventInvoiceCreated        EventType = "InvoiceCreated"
	EventInvoiceSent           EventType = "InvoiceSent"
	EventPaymentReceived       EventType = "PaymentReceived"
	EventPurchaseOrderCreated  EventType = "PurchaseOrderCreated"
	EventPurchaseOrderReceived EventType = "PurchaseOrderReceived"
	EventStockLevelLow         EventType = "StockLevelLow"
	EventStockMovement         EventType = "StockMovement"
)

// Topic names, one per publishing domain. Consumers subscribe by topic and
// dispatch on EventType.
const (
	TopicHR          = "erp.hr"
	TopicPayroll     = "erp.payroll"
	TopicBilling     = "erp.billing"
	TopicProcurement = "erp.procurement"
	TopicInventory   = "erp.inventory"
)

// TopicFor maps an event type to the topic it is published on.
func TopicFor(t EventType) string {
	switch t {
	case EventEmployeeCreated, EventEmployeeUpdated, EventEmployeeTerminated:
		return TopicHR
	case EventPayrollProcessed, EventPayrollApproved:
		return TopicPayroll
	case EventInvoiceCreated, EventInvoiceSent, EventPaymentReceived:
		return TopicBilling
	case EventPurchaseOrderCreated, EventPurchaseOrderReceived:
		return TopicProcurement
	default:
		return TopicInventory
	}
}

// PayrollProcessedPayload carries the amounts needed to re-derive the payroll
// expense journal batch on the consuming side.
type PayrollProcessedPayload struct {
	PayrollID   string          `json:"payrollId"`
	EmployeeID  string          `json:"employeeId"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	TaxWithheld decimal.Decimal `json:"taxWithheld"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetPay      decimal.Decimal `json:"netPay"`
	PaidAt      time.Time       `json:"paidAt"`
}

// InvoiceCreatedPayload announces a new draft invoice. It is a notification
// only; no ledger effect is derived from it.
type InvoiceCreatedPayload struct {
	InvoiceID     string          `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    string          `json:"customerId"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	IssuedAt      time.Time       `json:"issuedAt"`
}

// InvoiceSentPayload carries the amounts needed to re-derive the revenue
// recognition batch when the invoice is sent.
type InvoiceSentPayload struct {
	InvoiceID     string          `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    string          `json:"customerId"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	SentAt        time.Time       `json:"sentAt"`
}

// PaymentReceivedPayload records a customer payment against an invoice.
type PaymentReceivedPayload struct {
	InvoiceID  string          `json:"invoiceId"`
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// PurchaseOrderCreatedPayload announces a new purchase order.
type PurchaseOrderCreatedPayload struct {
	OrderID       string          `json:"orderId"`
	PONumber      string          `json:"poNumber"`
	VendorID      string          `json:"vendorId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AutoGenerated bool            `json:"autoGenerated"`
	OrderedAt     time.Time       `json:"orderedAt"`
}

// PurchaseOrderReceivedPayload carries the amount needed to re-derive the
// purchase recording batch.
type PurchaseOrderReceivedPayload struct {
	OrderID     string          `json:"orderId"`
	PONumber    string          `json:"poNumber"`
	VendorID    string          `json:"vendorId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ReceivedAt  time.Time       `json:"receivedAt"`
}

// StockLevelLowPayload announces a shortage episode; the consuming side can
// re-derive the reorder purchase order request from it.
type StockLevelLowPayload struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	AvailableQuantity int64           `json:"availableQuantity"`
	ReorderPoint      int64           `json:"reorderPoint"`
	ReorderQuantity   int64           `json:"reorderQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	PreferredVendorID string          `json:"preferredVendorId,omitempty"`
	DetectedAt        time.Time       `json:"detectedAt"`
}

// StockMovementPayload records any quantity change on an inventory item.
type StockMovementPayload struct {
	SKU        string    `json:"sku"`
	Delta      int64     `json:"delta"`
	Reason     string    `json:"reason"`
	OnHand     int64     `json:"onHand"`
	Reserved   int64     `json:"reserved"`
	OnOrder    int64     `json:"onOrder"`
	OccurredAt time.Time `json:"occurredAt"`
}
