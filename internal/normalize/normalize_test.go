package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsent(t *testing.T) {
	for _, s := range []string{"", "   ", "None", "nan", "NaN", " null ", "NaT"} {
		assert.True(t, IsAbsent(s), "%q", s)
	}
	for _, s := range []string{"0", "nano", "X", "—"} {
		assert.False(t, IsAbsent(s), "%q", s)
	}
}

func TestIncidentID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  01.AAD4284/26 ", "01.AAD4284/26"},
		{"01.aad4284/26", "01.aad4284/26"},
		{"None", ""},
		{"nan", ""},
		{"\t", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IncidentID(tt.in), tt.in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "нет ответа (занято)", Fold("  НЕТ   ОТВЕТА (ЗАНЯТО) "))
	assert.Equal(t, "could not reach", Fold("Could Not Reach"))
	assert.Equal(t, "", Fold(""))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("Отрицательный", []string{"отриц"}))
	assert.True(t, ContainsAny("NEGATIVE feedback", []string{"negativ"}))
	assert.False(t, ContainsAny("", []string{""}))
	assert.False(t, ContainsAny("positive", []string{"negativ"}))
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"null token", "None", ""},
		{"float serialized", "901234567.0", "901234567"},
		{"country code stripped", "998901234567", "901234567"},
		{"country code float", "998901234567.0", "901234567"},
		{"formatted", "+998 (90) 123-45-67", "901234567"},
		{"11 digits kept", "99890123456", "99890123456"},
		{"12 digits other code", "777901234567", "777901234567"},
		{"local", "90 123 45 67", "901234567"},
		{"letters only", "n/a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.in))
		})
	}
}

func TestPhone_Idempotent(t *testing.T) {
	inputs := []string{
		"", "None", "998901234567", "998901234567.0", "+998-90-123-45-67",
		"5.0.0", "12.0", "998998998998", "abc", "1 2 3", "998",
	}
	for _, in := range inputs {
		once := Phone(in)
		assert.Equal(t, once, Phone(once), "input %q", in)
	}
}

func TestPhoneMalformed(t *testing.T) {
	assert.True(t, PhoneMalformed("n/a", Phone("n/a")))
	assert.False(t, PhoneMalformed("", Phone("")))
	assert.False(t, PhoneMalformed("nan", Phone("nan")))
	assert.False(t, PhoneMalformed("901234567", Phone("901234567")))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NO ANSWER (BUSY)", CouldNotReach},
		{"no answer (busy)", CouldNotReach},
		{"Application closed (could not reach)", CouldNotReach},
		{"Medical worker application", CouldNotReach},
		{"Open card", CouldNotReach},
		{"Could not reach", CouldNotReach},
		{"НЕТ ОТВЕТА (ЗАНЯТО)", CouldNotReach},
		{"  Не дозвонились ", CouldNotReach},
		{" положительный ", "положительный"},
		{"отрицательный — заявка закрыта", "отрицательный — заявка закрыта"},
		{"nan", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.in), tt.in)
	}
}

func TestComplaintPrefix(t *testing.T) {
	tests := []struct {
		in          string
		wantService string
		wantText    string
	}{
		{"2. Long wait time", "102", "Long wait time"},
		{"1.Fire truck late", "101", "Fire truck late"},
		{" 3.  Rude medic ", "103", "Rude medic"},
		{"4. Gas leak ignored", "104", "Gas leak ignored"},
		{"5. Not a service", "", "5. Not a service"},
		{"No response", "", "No response"},
		{"01.AAC4685/26", "", "01.AAC4685/26"},
		{"2. 3. Twice marked", "102", "Twice marked"},
		{"2.", "102", ""},
		{"", "", ""},
		{"None", "", ""},
	}
	for _, tt := range tests {
		service, text := ComplaintPrefix(tt.in)
		assert.Equal(t, tt.wantService, service, tt.in)
		assert.Equal(t, tt.wantText, text, tt.in)
		assert.False(t, HasComplaintPrefix(text), tt.in)
	}
}

func TestIsIncidentNumber(t *testing.T) {
	assert.True(t, IsIncidentNumber("01.AAC4685/26"))
	assert.True(t, IsIncidentNumber(" 14.AB12CD34/25 "))
	assert.False(t, IsIncidentNumber("01.AAC46/26"))
	assert.False(t, IsIncidentNumber("01.aac4685/26"))
	assert.False(t, IsIncidentNumber("Long wait time"))
}

func TestServiceList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "102", []string{"102"}},
		{"semicolon list", "102;103", []string{"102", "103"}},
		{"dedupe keeps order", "104, 101 / 104", []string{"104", "101"}},
		{"embedded in text", "police(102) and ambulance 103", []string{"102", "103"}},
		{"digit-bounded only", "1021 and 2101", []string{"1021", "and", "2101"}},
		{"no codes raw labels", "fire; police|gas", []string{"fire", "police", "gas"}},
		{"out of range", "105", []string{"105"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceList(tt.in))
		})
	}
}

func TestServiceCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"102", "102"},
		{" 103 ", "103"},
		{"101.0", "101"},
		{"104.00", "104"},
		{"nan", ""},
		{"", ""},
		{"10.5", "10.5"},
		{"other", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ServiceCode(tt.in), tt.in)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"seconds", "03.01.2026 09:00:00", time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC), true},
		{"minutes", "31.01.2026 23:59", time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), true},
		{"excel serial", "46026", time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), true},
		{"excel serial fraction", "46026.5", time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC), true},
		{"serial below range", "0.5", time.Time{}, false},
		{"serial above range", "60001", time.Time{}, false},
		{"iso rejected", "2026-01-04 10:00:00", time.Time{}, false},
		{"date only rejected", "04.01.2026", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
		{"absent", "nan", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestInWindow(t *testing.T) {
	start := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	assert.True(t, InWindow(start, start, end))
	assert.True(t, InWindow(end, start, end))
	assert.False(t, InWindow(start.Add(-time.Second), start, end))
	assert.False(t, InWindow(end.Add(time.Second), start, end))
}
