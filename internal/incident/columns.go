package incident

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

type field int

const (
	fieldCard field = iota
	fieldIncident
	fieldService
	fieldPhone
	fieldStatus
	fieldRegion
	fieldDistrict
	fieldOperator
	fieldReceivedAt
	numFields
)

var fieldNames = [numFields]string{
	fieldCard:       "card_id",
	fieldIncident:   "incident_id",
	fieldService:    "service_code",
	fieldPhone:      "caller_phone",
	fieldStatus:     "received_status",
	fieldRegion:     "region",
	fieldDistrict:   "district",
	fieldOperator:   "operator_name",
	fieldReceivedAt: "received_at",
}

// exportNames are the column labels used by the 112 export.
var exportNames = [numFields]string{
	fieldCard:       "Карточка рақами",
	fieldIncident:   "Ҳодиса рақами",
	fieldService:    "Хизмат",
	fieldPhone:      "Мурожаатчи телефон рақами",
	fieldStatus:     "Ҳолат",
	fieldRegion:     "Вилоят",
	fieldDistrict:   "Туман",
	fieldOperator:   "Оператор",
	fieldReceivedAt: "Сана",
}

// headerAliases maps folded header labels to fields. Both the export labels
// and the canonical names are accepted.
var headerAliases = func() map[string]field {
	m := make(map[string]field, 2*numFields)
	for f := range numFields {
		m[normalize.Fold(exportNames[f])] = f
		m[normalize.Fold(fieldNames[f])] = f
	}
	return m
}()

// columns maps each field to its position in a file's header row.
type columns struct {
	idx [numFields]int
	// ts is the position of the optional dedupe timestamp column, or -1.
	ts int
}

// hasServiceColumn reports whether a header row carries the service column.
// Files without it are summary sheets.
func hasServiceColumn(header []string) bool {
	for _, h := range header {
		if f, ok := headerAliases[normalize.Fold(h)]; ok && f == fieldService {
			return true
		}
	}
	return false
}

// resolveColumns locates every required column in header. tsColumn, when
// non-empty, names an optional extra column used for the latest-row dedupe.
func resolveColumns(header []string, tsColumn string) (columns, error) {
	var c columns
	for f := range numFields {
		c.idx[f] = -1
	}
	c.ts = -1

	tsKey := normalize.Fold(tsColumn)
	for i, h := range header {
		key := normalize.Fold(h)
		if key == "" {
			continue
		}
		if f, ok := headerAliases[key]; ok && c.idx[f] < 0 {
			c.idx[f] = i
		}
		if tsKey != "" && key == tsKey && c.ts < 0 {
			c.ts = i
		}
	}

	var missing []string
	for f := range numFields {
		if c.idx[f] < 0 {
			missing = append(missing, exportNames[f])
		}
	}
	if len(missing) > 0 {
		return columns{}, eris.Wrapf(model.ErrSourceMalformed, "incident: missing required columns %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) get(row []string, f field) string {
	return cell(row, c.idx[f])
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
