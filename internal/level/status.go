package level

// Status is the state of a level session.
type Status int

const (
	StatusLoading Status = iota
	StatusPlaying
	StatusAnswered
	StatusRevealed
	StatusError
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusAnswered:
		return "answered"
	case StatusRevealed:
		return "revealed"
	case StatusError:
		return "error"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s == StatusError || s == StatusCompleted
}
