package model

// OperatorCounters tallies row-level outcomes of the operator feed.
type OperatorCounters struct {
	RowsRead        int `json:"rows_read" yaml:"rows_read"`
	RowsAdmitted    int `json:"rows_admitted" yaml:"rows_admitted"`
	ShortRows       int `json:"short_rows" yaml:"short_rows"`
	BadDates        int `json:"bad_dates" yaml:"bad_dates"`
	OutsideWindow   int `json:"outside_window" yaml:"outside_window"`
	BadPhones       int `json:"bad_phones" yaml:"bad_phones"`
	Chunks          int `json:"chunks" yaml:"chunks"`
	MissingIncident int `json:"missing_incident" yaml:"missing_incident"`
	// IncidentLikeComplaints counts complaint cells that held an incident
	// number instead of complaint text.
	IncidentLikeComplaints int `json:"incident_like_complaints" yaml:"incident_like_complaints"`
}

// IncidentCounters tallies file- and row-level outcomes of the 112 feed.
type IncidentCounters struct {
	FilesRead        int `json:"files_read" yaml:"files_read"`
	FilesSkipped     int `json:"files_skipped" yaml:"files_skipped"`
	RowsRead         int `json:"rows_read" yaml:"rows_read"`
	BlankService     int `json:"blank_service" yaml:"blank_service"`
	ExactDuplicates  int `json:"exact_duplicates" yaml:"exact_duplicates"`
	KeyDuplicates    int `json:"key_duplicates" yaml:"key_duplicates"`
	LatestDuplicates int `json:"latest_duplicates" yaml:"latest_duplicates"`
	BadPhones        int `json:"bad_phones" yaml:"bad_phones"`
	BadDates         int `json:"bad_dates" yaml:"bad_dates"`
	RowsEmitted      int `json:"rows_emitted" yaml:"rows_emitted"`
}

// Counters is the row-level fault record exposed alongside the derived tables.
type Counters struct {
	Operator OperatorCounters `json:"operator" yaml:"operator"`
	Incident IncidentCounters `json:"incident" yaml:"incident"`
}
