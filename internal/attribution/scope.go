// Package attribution turns operator records into the lookup maps the
// reconciler joins 112 rows against.
package attribution

import (
	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

// ScopeSource records which rule decided a complaint's service scope.
type ScopeSource string

const (
	ScopePrefix     ScopeSource = "prefix"
	ScopeServiceRef ScopeSource = "service_ref"
	ScopeUnscoped   ScopeSource = "unscoped"
)

// Attribution is everything one operator record contributes to the maps.
type Attribution struct {
	Incident  string
	Status    string
	Positive  string
	Complaint string   // prefix-stripped; "" when there is nothing to attribute
	Services  []string // nil when unscoped
	Source    ScopeSource
	// IncidentLike is set when the complaint cell held an incident number
	// and was discarded.
	IncidentLike bool
}

// Resolve computes a record's attribution. It returns false when the record
// has no incident number and must be skipped.
//
// Scope precedence: a complaint prefix ("2. …") wins outright and the
// service_ref column is ignored; otherwise the 101-104 codes found in
// service_ref; otherwise the complaint is unscoped.
func Resolve(rec model.OperatorRecord) (Attribution, bool) {
	incident := normalize.IncidentID(rec.IncidentID)
	if incident == "" {
		return Attribution{}, false
	}

	a := Attribution{
		Incident: incident,
		Status:   normalize.Status(rec.ContactStatus),
		Positive: normalize.Clean(rec.PositiveMarker),
	}

	prefixService, complaint := normalize.ComplaintPrefix(rec.ComplaintText)
	if normalize.IsIncidentNumber(complaint) {
		complaint = ""
		a.IncidentLike = true
	}
	a.Complaint = complaint
	a.Services, a.Source = ResolveScope(prefixService, rec.ServiceRef)
	return a, true
}

// ResolveScope applies the service-scope precedence to a prefix-derived
// service and the free-text service_ref.
func ResolveScope(prefixService, serviceRef string) ([]string, ScopeSource) {
	if prefixService != "" {
		return []string{prefixService}, ScopePrefix
	}
	var codes []string
	for _, code := range normalize.ServiceList(serviceRef) {
		if model.IsServiceCode(code) {
			codes = append(codes, code)
		}
	}
	if len(codes) > 0 {
		return codes, ScopeServiceRef
	}
	return nil, ScopeUnscoped
}
