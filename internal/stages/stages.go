// Package stages classifies an order's position in the shipment lifecycle.
// Classification is pure index math over a fixed stage list: stages before the
// current index are completed, the stage at the index is current, the rest are
// pending. There is no transition validation; admins may move a shipment to
// any stage, including backwards.
package stages

import (
	"fmt"

	"parcelTrackingManagement/models"
)

// State is the visual state of one stage relative to the order's status.
type State string

const (
	StateCompleted State = "completed"
	StateCurrent   State = "current"
	StatePending   State = "pending"
)

// StageState pairs a stage with its classified state.
type StageState struct {
	Stage models.OrderStatus `json:"stage"`
	State State              `json:"state"`
}

// StageIndex returns the position of status within list. An unknown status is
// a schema mismatch between client and store and is returned as an error,
// never silently mapped to a default stage.
func StageIndex(status models.OrderStatus, list []models.OrderStatus) (int, error) {
	for i, s := range list {
		if s == status {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", status)
}

// Classify maps every stage in list to completed, current or pending based on
// where status falls. Exactly one stage is current.
func Classify(status models.OrderStatus, list []models.OrderStatus) ([]StageState, error) {
	idx, err := StageIndex(status, list)
	if err != nil {
		return nil, err
	}
	out := make([]StageState, len(list))
	for i, s := range list {
		st := StatePending
		switch {
		case i < idx:
			st = StateCompleted
		case i == idx:
			st = StateCurrent
		}
		out[i] = StageState{Stage: s, State: st}
	}
	return out, nil
}

// ListFor picks the stage list a status belongs to: the canonical 11-stage
// lifecycle, falling back to the legacy 6-stage vocabulary for rows written
// by early builds. ok is false when the status is in neither.
func ListFor(status models.OrderStatus) ([]models.OrderStatus, bool) {
	if _, err := StageIndex(status, models.CanonicalStages); err == nil {
		return models.CanonicalStages, true
	}
	if _, err := StageIndex(status, models.LegacyStages); err == nil {
		return models.LegacyStages, true
	}
	return nil, false
}

var labelsEN = map[models.OrderStatus]string{
	models.StatusPendingInspection: "Pending Inspection",
	models.StatusPaymentCompleted:  "Payment Completed",
	models.StatusAccepted:          "Accepted",
	models.StatusChinaWarehouse:    "In China Warehouse",
	models.StatusChinaTransit:      "China Transit Hub",
	models.StatusEnRoute:           "En Route to Libya",
	models.StatusLibyaArrived:      "Arrived in Libya",
	models.StatusLibyaWarehouse:    "In Libya Warehouse",
	models.StatusProcessingLY:      "Processing in Libya",
	models.StatusOutForDelivery:    "Out for Delivery",
	models.StatusDelivered:         "Delivered",
	models.StatusChinaStore:        "Pending Shipment",
}

var labelsAR = map[models.OrderStatus]string{
	models.StatusPendingInspection: "فحص السلعة",
	models.StatusPaymentCompleted:  "إتمام عملية الدفع",
	models.StatusAccepted:          "قبول السلعة",
	models.StatusChinaWarehouse:    "وصلت مخزننا في الصين",
	models.StatusChinaTransit:      "مركز العبور الصين",
	models.StatusEnRoute:           "في الطريق لليبيا",
	models.StatusLibyaArrived:      "وصول السلعة لليبيا",
	models.StatusLibyaWarehouse:    "وصلت مخازننا في ليبيا",
	models.StatusProcessingLY:      "قيد المعالجة في ليبيا",
	models.StatusOutForDelivery:    "خرجت مع المندوب للتوصيل",
	models.StatusDelivered:         "تم تسليم الشحنة بنجاح",
	models.StatusChinaStore:        "بانتظار الشحن من المتجر",
}

// Label returns the display string for a stage. lang is "ar" or "en";
// anything else falls back to English. Unknown stages render as their raw
// status value so a schema drift is visible rather than blank.
func Label(status models.OrderStatus, lang string) string {
	m := labelsEN
	if lang == "ar" {
		m = labelsAR
	}
	if l, ok := m[status]; ok {
		return l
	}
	return string(status)
}
