package models

import (
	"strings"
	"time"
)

// OrderStatus is one point in the fixed, ordered shipment lifecycle.
type OrderStatus string

const (
	StatusPendingInspection OrderStatus = "Pending_Inspection"
	StatusPaymentCompleted  OrderStatus = "Payment_Completed"
	StatusAccepted          OrderStatus = "Accepted"
	StatusChinaWarehouse    OrderStatus = "China_Warehouse"
	StatusChinaTransit      OrderStatus = "China_Transit"
	StatusEnRoute           OrderStatus = "En_Route"
	StatusLibyaArrived      OrderStatus = "Libya_Arrived"
	StatusLibyaWarehouse    OrderStatus = "Libya_Warehouse"
	StatusProcessingLY      OrderStatus = "Processing_LY"
	StatusOutForDelivery    OrderStatus = "Out_for_Delivery"
	StatusDelivered         OrderStatus = "Delivered"

	// StatusChinaStore only appears in rows written by early builds.
	StatusChinaStore OrderStatus = "China_Store"
)

// CanonicalStages is the full 11-stage lifecycle, in progression order.
// The progression is strictly linear and forward-only; there is no
// cancellation or reject stage.
var CanonicalStages = []OrderStatus{
	StatusPendingInspection,
	StatusPaymentCompleted,
	StatusAccepted,
	StatusChinaWarehouse,
	StatusChinaTransit,
	StatusEnRoute,
	StatusLibyaArrived,
	StatusLibyaWarehouse,
	StatusProcessingLY,
	StatusOutForDelivery,
	StatusDelivered,
}

// LegacyStages is the reduced 6-stage vocabulary used by early builds.
// Kept only so old rows still classify; new orders always use CanonicalStages.
var LegacyStages = []OrderStatus{
	StatusChinaStore,
	StatusChinaWarehouse,
	StatusEnRoute,
	StatusLibyaWarehouse,
	StatusOutForDelivery,
	StatusDelivered,
}

// PaymentMethod is how the shipment was paid for.
type PaymentMethod string

const (
	PaymentCashChina  PaymentMethod = "Cash_China"
	PaymentCreditCard PaymentMethod = "Credit_Card"
)

// Location is a geographic point used only during the final delivery stage.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Order is a single shipment tracked end-to-end from intake to delivery.
// The human-facing OrderCode (LY- + digits) is the natural lookup key;
// ID is internal and server-assigned.
type Order struct {
	ID                      string        `json:"id"`
	OrderCode               string        `json:"orderCode"`
	CustomerName            string        `json:"customerName"`
	CustomerPhone           string        `json:"customerPhone"`
	CustomerAddress         string        `json:"customerAddress"`
	ProductName             string        `json:"productName"`
	Quantity                int           `json:"quantity"`
	TotalPrice              float64       `json:"totalPrice"`
	Weight                  string        `json:"weight"`
	Volume                  string        `json:"volume"`
	PaymentMethod           PaymentMethod `json:"paymentMethod"`
	Status                  OrderStatus   `json:"status"`
	CurrentPhysicalLocation string        `json:"currentPhysicalLocation"`
	// Live positions, meaningful only while Status is Out_for_Delivery.
	CustomerLocation *Location `json:"customerLocation,omitempty"`
	DriverLocation   *Location `json:"driverLocation,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NormalizeCode canonicalizes a tracking code for lookup: trimmed, uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
