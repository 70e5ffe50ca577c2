package events

// Event types for the scan lifecycle.
const (
	TypeScanStarted     = "scan.started"
	TypeScanCompleted   = "scan.completed"
	TypeScanFailed      = "scan.failed"
	TypeSeriesResolved  = "series.resolved"
	TypeSeriesLocalOnly = "series.local_only"
)

// ScanStarted is published when a scan begins walking its roots.
type ScanStarted struct {
	BaseEvent
	Roots []string `json:"roots"`
}

// NewScanStarted creates a ScanStarted event.
func NewScanStarted(scanID string, roots []string) *ScanStarted {
	return &ScanStarted{
		BaseEvent: NewBaseEvent(TypeScanStarted, "scan", scanID),
		Roots:     roots,
	}
}

// ScanCompleted is published after the catalog has been persisted.
type ScanCompleted struct {
	BaseEvent
	Units   int `json:"units"`
	Records int `json:"records"`
}

// NewScanCompleted creates a ScanCompleted event.
func NewScanCompleted(scanID string, units, records int) *ScanCompleted {
	return &ScanCompleted{
		BaseEvent: NewBaseEvent(TypeScanCompleted, "scan", scanID),
		Units:     units,
		Records:   records,
	}
}

// ScanFailed is published when a scan aborts before persisting.
type ScanFailed struct {
	BaseEvent
	Error string `json:"error"`
}

// NewScanFailed creates a ScanFailed event.
func NewScanFailed(scanID string, err error) *ScanFailed {
	e := &ScanFailed{
		BaseEvent: NewBaseEvent(TypeScanFailed, "scan", scanID),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// SeriesResolved is published when a unit is reconciled against a
// provider match or a valid cached record.
type SeriesResolved struct {
	BaseEvent
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Episodes int    `json:"episodes"`
}

// NewSeriesResolved creates a SeriesResolved event.
func NewSeriesResolved(seriesID, title, provider string, episodes int) *SeriesResolved {
	return &SeriesResolved{
		BaseEvent: NewBaseEvent(TypeSeriesResolved, "series", seriesID),
		Title:     title,
		Provider:  provider,
		Episodes:  episodes,
	}
}

// SeriesLocalOnly is published when no provider produced a match and
// the record was built from local files alone.
type SeriesLocalOnly struct {
	BaseEvent
	Title string `json:"title"`
}

// NewSeriesLocalOnly creates a SeriesLocalOnly event.
func NewSeriesLocalOnly(seriesID, title string) *SeriesLocalOnly {
	return &SeriesLocalOnly{
		BaseEvent: NewBaseEvent(TypeSeriesLocalOnly, "series", seriesID),
		Title:     title,
	}
}
