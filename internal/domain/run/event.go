package run

// EventState is the progress state pushed to an observer.
type EventState string

const (
	EventStartRetrieveMatch EventState = "START_RETRIEVE_MATCH"
	EventRetrievingMatch    EventState = "RETRIEVING_MATCH"
	EventProcessingMatch    EventState = "PROCESSING_MATCH"
	EventGeneratingFacts    EventState = "GENERATING_FACTS"
	EventComplete           EventState = "COMPLETE"
	EventBusy               EventState = "BUSY"
	EventFail               EventState = "FAIL"
)

// Terminal reports whether the event ends a run from the observer's view.
func (s EventState) Terminal() bool {
	switch s {
	case EventComplete, EventBusy, EventFail:
		return true
	default:
		return false
	}
}

// Event is the payload sent to an observer.
type Event struct {
	State  EventState `json:"state"`
	Total  *int       `json:"total,omitempty"`
	Count  *int       `json:"count,omitempty"`
	Result any        `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

func StartRetrieveMatch(total int) Event {
	return Event{State: EventStartRetrieveMatch, Total: &total}
}

func RetrievingMatch(count int) Event {
	return Event{State: EventRetrievingMatch, Count: &count}
}

func Simple(state EventState) Event {
	return Event{State: state}
}

func Complete(result any) Event {
	return Event{State: EventComplete, Result: result}
}

func Fail(err error) Event {
	event := Event{State: EventFail}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}
