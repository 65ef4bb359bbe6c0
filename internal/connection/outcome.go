package connection

// Outcome is the result of processing a single Connect control.
type Outcome int

const (
	// Sent: the confirmation control appeared and was clicked.
	Sent Outcome = iota
	// AssumedSent: no confirmation control appeared in time; the click is taken as a direct send.
	AssumedSent
	// Skipped: the Connect control could not be scrolled to or clicked.
	Skipped
	// Dismissed: confirmation failed and the modal was dismissed.
	Dismissed
	// Fatal: the run was cancelled mid-candidate.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Sent:
		return "sent"
	case AssumedSent:
		return "assumed_sent"
	case Skipped:
		return "skipped"
	case Dismissed:
		return "dismissed"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Counts reports whether the outcome consumes one unit of the cap.
func (o Outcome) Counts() bool {
	return o == Sent || o == AssumedSent
}

// Report summarises one pass over the search results.
type Report struct {
	Found     int
	Processed int
	Outcomes  map[Outcome]int
}

func newReport(found int) Report {
	return Report{Found: found, Outcomes: make(map[Outcome]int)}
}

func (r *Report) add(o Outcome) {
	r.Processed++
	r.Outcomes[o]++
}
