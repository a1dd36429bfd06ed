package download

// State is the download state of one episode.
type State string

const (
	StateNotDownloaded State = "NOT_DOWNLOADED"
	StateQueue         State = "QUEUE"
	StateDownloading   State = "DOWNLOADING"
	StateDownloaded    State = "DOWNLOADED"
	StateError         State = "ERROR"
)

// validTransitions defines allowed state transitions.
// Key is the "from" state, value is list of valid "to" states.
var validTransitions = map[State][]State{
	StateNotDownloaded: {StateQueue},
	StateQueue:         {StateDownloading, StateError, StateNotDownloaded},
	StateDownloading:   {StateDownloaded, StateError, StateNotDownloaded},
	StateDownloaded:    {StateNotDownloaded},
	StateError:         {StateQueue, StateNotDownloaded}, // retry or discard
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// Active reports whether the episode is waiting for or receiving data.
func (s State) Active() bool {
	return s == StateQueue || s == StateDownloading
}

// Action is something the user can ask of an episode's download.
type Action string

const (
	ActionStart         Action = "START"
	ActionStartNow      Action = "START_NOW"
	ActionCancel        Action = "CANCEL"
	ActionDelete        Action = "DELETE"
	ActionShowQualities Action = "SHOW_QUALITIES"
)

// Actions is what a download indicator offers in one state.
// An empty Click or LongPress opens Menu instead of acting directly.
type Actions struct {
	Click     Action
	LongPress Action
	Menu      []Action
}

// ActionsFor returns the actions offered in state s.
func ActionsFor(s State) Actions {
	switch s {
	case StateNotDownloaded:
		return Actions{Click: ActionStart, LongPress: ActionShowQualities}
	case StateQueue, StateDownloading:
		return Actions{LongPress: ActionCancel, Menu: []Action{ActionStartNow, ActionCancel}}
	case StateDownloaded:
		return Actions{Menu: []Action{ActionDelete}}
	case StateError:
		return Actions{Click: ActionStart, LongPress: ActionStart}
	}
	return Actions{}
}

// Allows reports whether a is reachable from the indicator in state s.
func (a Actions) Allows(action Action) bool {
	if action == "" {
		return false
	}
	if a.Click == action || a.LongPress == action {
		return true
	}
	for _, m := range a.Menu {
		if m == action {
			return true
		}
	}
	return false
}

// Indeterminate reports whether progress cannot be shown as a fraction:
// queued episodes and downloads that have not reported progress yet.
func Indeterminate(s State, progress int) bool {
	return s == StateQueue || (s == StateDownloading && progress == 0)
}
