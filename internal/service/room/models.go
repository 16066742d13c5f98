package room

type ActionKind string

const (
	ActionPlay  ActionKind = "play"
	ActionPause ActionKind = "pause"
	ActionSeek  ActionKind = "seek"
)

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionPlay, ActionPause, ActionSeek:
		return true
	}

	return false
}

// PlaybackAction is relayed verbatim from the host to the viewers, never
// stored.
type PlaybackAction struct {
	Kind ActionKind `json:"kind"`
	Time float64    `json:"time"`
}

type ChatMessage struct {
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
}
