package attribution

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

// Key identifies complaints attributed to one service of one incident.
type Key struct {
	Incident string
	Service  string
}

// ComplaintSet is a set of cleaned complaint texts.
type ComplaintSet map[string]struct{}

// Add inserts c.
func (s ComplaintSet) Add(c string) { s[c] = struct{}{} }

// Sorted returns the members in ascending order.
func (s ComplaintSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Maps holds the attribution lookups. They are written once by a Builder and
// read-only afterwards.
type Maps struct {
	StatusByIncident        map[string]string
	PositiveByIncident      map[string]string
	ComplaintsAllByIncident map[string]ComplaintSet
	ComplaintsByService     map[Key]ComplaintSet
}

func newMaps() *Maps {
	return &Maps{
		StatusByIncident:        make(map[string]string),
		PositiveByIncident:      make(map[string]string),
		ComplaintsAllByIncident: make(map[string]ComplaintSet),
		ComplaintsByService:     make(map[Key]ComplaintSet),
	}
}

// Status returns the first non-empty status recorded for incident.
func (m *Maps) Status(incident string) string {
	return m.StatusByIncident[incident]
}

// Positive returns the first non-empty positive marker recorded for incident.
func (m *Maps) Positive(incident string) string {
	return m.PositiveByIncident[incident]
}

// Complaints returns the sorted complaints for one incident row. Complaints
// attributed to the row's service shadow the unscoped ones entirely; the two
// sets are never merged.
func (m *Maps) Complaints(incident, service string) []string {
	if set, ok := m.ComplaintsByService[Key{Incident: incident, Service: service}]; ok {
		return set.Sorted()
	}
	if set, ok := m.ComplaintsAllByIncident[incident]; ok {
		return set.Sorted()
	}
	return nil
}

// Check returns model.ErrMalformedComplaint when a cleaned complaint still
// begins with a service marker. Markers later in the text are left alone.
func (m *Maps) Check() error {
	for incident, set := range m.ComplaintsAllByIncident {
		if err := set.check(incident, ""); err != nil {
			return err
		}
	}
	for key, set := range m.ComplaintsByService {
		if err := set.check(key.Incident, key.Service); err != nil {
			return err
		}
	}
	return nil
}

func (s ComplaintSet) check(incident, service string) error {
	for c := range s {
		if normalize.HasComplaintPrefix(c) {
			return eris.Wrapf(model.ErrMalformedComplaint, "attribution: incident %s service %q: %q", incident, service, c)
		}
	}
	return nil
}

// Stats counts how records were attributed.
type Stats struct {
	Records                int
	MissingIncident        int
	IncidentLikeComplaints int
	ScopedByPrefix         int
	ScopedByServiceRef     int
	Unscoped               int
}

// Builder accumulates operator records into Maps in a single pass.
type Builder struct {
	maps  *Maps
	stats Stats
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{maps: newMaps()}
}

// Add folds one record into the maps. Scalar maps keep the first non-empty
// value seen for an incident; complaint sets accumulate.
func (b *Builder) Add(rec model.OperatorRecord) {
	b.stats.Records++

	a, ok := Resolve(rec)
	if !ok {
		b.stats.MissingIncident++
		return
	}
	if a.IncidentLike {
		b.stats.IncidentLikeComplaints++
	}

	if a.Status != "" {
		if _, set := b.maps.StatusByIncident[a.Incident]; !set {
			b.maps.StatusByIncident[a.Incident] = a.Status
		}
	}
	if a.Positive != "" {
		if _, set := b.maps.PositiveByIncident[a.Incident]; !set {
			b.maps.PositiveByIncident[a.Incident] = a.Positive
		}
	}

	if a.Complaint == "" {
		return
	}
	switch a.Source {
	case ScopePrefix:
		b.stats.ScopedByPrefix++
	case ScopeServiceRef:
		b.stats.ScopedByServiceRef++
	default:
		b.stats.Unscoped++
		set, ok := b.maps.ComplaintsAllByIncident[a.Incident]
		if !ok {
			set = make(ComplaintSet)
			b.maps.ComplaintsAllByIncident[a.Incident] = set
		}
		set.Add(a.Complaint)
		return
	}
	for _, service := range a.Services {
		key := Key{Incident: a.Incident, Service: service}
		set, ok := b.maps.ComplaintsByService[key]
		if !ok {
			set = make(ComplaintSet)
			b.maps.ComplaintsByService[key] = set
		}
		set.Add(a.Complaint)
	}
}

// AddChunk folds a chunk of records; it satisfies operator.ChunkFunc.
func (b *Builder) AddChunk(chunk []model.OperatorRecord) error {
	for _, rec := range chunk {
		b.Add(rec)
	}
	zap.L().Debug("attribution: chunk added",
		zap.Int("records", len(chunk)),
		zap.Int("incidents", len(b.maps.StatusByIncident)),
	)
	return nil
}

// Maps returns the accumulated maps. Callers must not add records afterwards.
func (b *Builder) Maps() *Maps {
	return b.maps
}

// Stats returns attribution counts so far.
func (b *Builder) Stats() Stats {
	return b.stats
}
