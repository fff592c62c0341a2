package model

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsServiceCode(t *testing.T) {
	for _, code := range ServiceCodes {
		assert.True(t, IsServiceCode(code), code)
	}
	for _, code := range []string{"", "100", "105", "1010", " 101"} {
		assert.False(t, IsServiceCode(code), code)
	}
}

func TestReconciledRow_Values(t *testing.T) {
	at := time.Date(2026, 1, 12, 14, 5, 9, 0, time.UTC)
	r := ReconciledRow{
		IncidentRow: IncidentRow{
			IncidentID:     "01.AAD4284/26",
			CardID:         "C-1",
			ServiceCode:    "102",
			CallerPhone:    "901234567",
			ReceivedStatus: "closed",
			Region:         "Toshkent",
			District:       "Chilonzor",
			OperatorName:   "Operator 7",
			ReceivedAt:     &at,
		},
		ComplaintJoined:  "Long wait time",
		StatusResolved:   "положительный",
		PositiveResolved: "Да",
		HasComplaint:     true,
	}

	values := r.Values()
	assert.Len(t, values, len(DetailColumns))
	assert.Equal(t, "01.AAD4284/26", values[0])
	assert.Equal(t, "12.01.2026 14:05:09", values[8])
	assert.Equal(t, "Long wait time", values[9])
	assert.Equal(t, "true", values[12])
}

func TestReconciledRow_ValuesNoTimestamp(t *testing.T) {
	values := ReconciledRow{}.Values()
	assert.Equal(t, "", values[8])
	assert.Equal(t, "false", values[12])
}

func TestSentinelsAreDistinct(t *testing.T) {
	wrapped := eris.Wrap(ErrSourceMissing, "incident: load")
	assert.True(t, eris.Is(wrapped, ErrSourceMissing))
	assert.False(t, eris.Is(wrapped, ErrSourceMalformed))
	assert.False(t, eris.Is(wrapped, ErrEmptyReconciliation))
}
