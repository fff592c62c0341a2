package model

import "time"

// Service codes dispatched by the 112 system.
const (
	ServiceFire      = "101"
	ServicePolice    = "102"
	ServiceAmbulance = "103"
	ServiceGas       = "104"
)

// ServiceCodes lists the recognised service codes in report order.
var ServiceCodes = []string{ServiceFire, ServicePolice, ServiceAmbulance, ServiceGas}

// IsServiceCode reports whether code is one of the four 112 service codes.
func IsServiceCode(code string) bool {
	switch code {
	case ServiceFire, ServicePolice, ServiceAmbulance, ServiceGas:
		return true
	}
	return false
}

// OperatorRecord is one normalized row of the operator call-back log.
type OperatorRecord struct {
	IncidentID     string     `json:"incident_id"`
	OpenedAt       *time.Time `json:"opened_at,omitempty"`
	ContactStatus  string     `json:"contact_status"`
	ServiceRef     string     `json:"service_ref"`
	ComplaintText  string     `json:"complaint_text"`
	PositiveMarker string     `json:"positive_marker"`
	Phone          string     `json:"phone,omitempty"`
}

// IncidentRow is one row of the 112 incident export. The 112 feed defines the
// identity and ordering of every output row.
type IncidentRow struct {
	IncidentID     string     `json:"incident_id"`
	CardID         string     `json:"card_id"`
	ServiceCode    string     `json:"service_code"`
	CallerPhone    string     `json:"caller_phone"`
	ReceivedStatus string     `json:"received_status"`
	Region         string     `json:"region"`
	District       string     `json:"district"`
	OperatorName   string     `json:"operator_name"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
}

// ReconciledRow is an IncidentRow with the operator-side attribution applied.
type ReconciledRow struct {
	IncidentRow
	ComplaintJoined  string `json:"complaint_joined"`
	StatusResolved   string `json:"status_resolved"`
	PositiveResolved string `json:"positive_resolved"`
	HasComplaint     bool   `json:"has_complaint"`
}

// DetailColumns are the column names offered to report writers for detailed
// line items, in order.
var DetailColumns = []string{
	"incident_id",
	"card_id",
	"service_code",
	"caller_phone",
	"received_status",
	"region",
	"district",
	"operator_name",
	"received_at",
	"complaint_joined",
	"status_resolved",
	"positive_resolved",
	"has_complaint",
}

// TimestampLayout formats timestamps in detail tables.
const TimestampLayout = "02.01.2006 15:04:05"

// Values returns the row's cells in DetailColumns order.
func (r ReconciledRow) Values() []string {
	receivedAt := ""
	if r.ReceivedAt != nil {
		receivedAt = r.ReceivedAt.Format(TimestampLayout)
	}
	hasComplaint := "false"
	if r.HasComplaint {
		hasComplaint = "true"
	}
	return []string{
		r.IncidentID,
		r.CardID,
		r.ServiceCode,
		r.CallerPhone,
		r.ReceivedStatus,
		r.Region,
		r.District,
		r.OperatorName,
		receivedAt,
		r.ComplaintJoined,
		r.StatusResolved,
		r.PositiveResolved,
		hasComplaint,
	}
}
