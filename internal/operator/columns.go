package operator

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

// field identifies one logical column of the operator feed.
type field int

const (
	fieldIncident field = iota
	fieldOpenedAt
	fieldPhone
	fieldStatus
	fieldServiceRef
	fieldComplaint
	fieldPositive
	numFields
)

var fieldNames = [numFields]string{
	fieldIncident:   "incident_id",
	fieldOpenedAt:   "opened_at",
	fieldPhone:      "phone",
	fieldStatus:     "contact_status",
	fieldServiceRef: "service_ref",
	fieldComplaint:  "complaint_text",
	fieldPositive:   "positive_marker",
}

// headerAliases maps accepted header labels to fields. The consolidated
// worksheets carry positional placeholders (Колонка_N); exports that were
// already renamed use the canonical names.
var headerAliases = map[string]field{
	"колонка_2":       fieldIncident,
	"incident_id":     fieldIncident,
	"ҳодиса рақами":   fieldIncident,
	"колонка_3":       fieldOpenedAt,
	"opened_at":       fieldOpenedAt,
	"колонка_4":       fieldPhone,
	"phone":           fieldPhone,
	"колонка_5":       fieldStatus,
	"contact_status":  fieldStatus,
	"колонка_6":       fieldServiceRef,
	"service_ref":     fieldServiceRef,
	"колонка_7":       fieldComplaint,
	"complaint_text":  fieldComplaint,
	"колонка_8":       fieldPositive,
	"positive_marker": fieldPositive,
}

// columns holds the resolved cell index of every field; -1 when absent.
type columns [numFields]int

// resolveColumns maps a header row to field positions. The first matching
// header cell wins. Every field except phone is required.
func resolveColumns(header []string) (columns, error) {
	var c columns
	for i := range c {
		c[i] = -1
	}
	for i, label := range header {
		f, ok := headerAliases[normalize.Fold(label)]
		if ok && c[f] < 0 {
			c[f] = i
		}
	}
	for f := field(0); f < numFields; f++ {
		if f == fieldPhone {
			continue
		}
		if c[f] < 0 {
			return c, eris.Wrapf(model.ErrSourceMalformed, "operator: missing required column %s", fieldNames[f])
		}
	}
	return c, nil
}

// width is the number of cells a row needs to reach every resolved column.
func (c columns) width() int {
	w := 0
	for _, idx := range c {
		if idx+1 > w {
			w = idx + 1
		}
	}
	return w
}

// get returns the cell for f, or "" when the column is absent or the row is
// short.
func (c columns) get(row []string, f field) string {
	idx := c[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
