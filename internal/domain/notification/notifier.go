package notification

import (
	"context"
	"time"
)

// InspectionEvent is dispatched after a material inspection concludes.
type InspectionEvent struct {
	VendorName       string    `json:"vendor_name"`
	VehicleNumber    string    `json:"vehicle_number"`
	InspectionResult string    `json:"inspection_result"`
	FactoryName      string    `json:"factory_name"`
	Timestamp        time.Time `json:"timestamp"`
	RejectionReason  string    `json:"rejection_reason,omitempty"`
}

// Notifier is fire-and-forget: implementations log failures, callers never
// fail an inspection because a notification could not be delivered.
type Notifier interface {
	NotifyInspection(ctx context.Context, ev InspectionEvent) error
}
