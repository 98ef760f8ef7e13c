package domain

import "errors"

// DefaultQuestion opens every interview before the backend has issued one.
const DefaultQuestion = "어린 시절 가장 기억에 남는 추억은 무엇인가요?"

// InterviewStatus models which stage of the interview the client is in.
type InterviewStatus string

const (
	StatusWelcome   InterviewStatus = "welcome"
	StatusInterview InterviewStatus = "interview"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Turn is one utterance in the conversation log.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ErrorKind classifies a failed operation for the UI.
type ErrorKind string

const (
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindServer     ErrorKind = "server"
	ErrorKindRequest    ErrorKind = "request"
)

// ErrorState is the single active user-facing error.
type ErrorState struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// StateError carries an already-classified ErrorState as an error value so
// the classification survives the trip back through ordinary error returns.
type StateError struct {
	State ErrorState
}

func (e *StateError) Error() string { return e.State.Message }

// ErrorStateOf extracts the classified state from err. Errors that were never
// classified (local preconditions, device failures) become request-kind.
func ErrorStateOf(err error) ErrorState {
	var stateErr *StateError
	if errors.As(err, &stateErr) {
		return stateErr.State
	}
	return ErrorState{Kind: ErrorKindRequest, Message: err.Error()}
}

// RecordingPhase models the capture pipeline lifecycle.
type RecordingPhase string

const (
	RecordingIdle      RecordingPhase = "idle"
	RecordingActive    RecordingPhase = "recording"
	RecordingUploading RecordingPhase = "uploading"
)

// LastAction tags the most recent user-initiated network attempt.
type LastAction string

const (
	ActionNone   LastAction = "none"
	ActionStart  LastAction = "start"
	ActionSubmit LastAction = "submit"
)

// Snapshot is the full UI-visible session state.
type Snapshot struct {
	Status          InterviewStatus `json:"status"`
	SessionID       string          `json:"sessionId"`
	CurrentQuestion string          `json:"currentQuestion"`
	Conversation    []Turn          `json:"conversation"`
	PendingAnswer   string          `json:"pendingAnswer"`
	DraftText       string          `json:"draftText"`
	Loading         bool            `json:"loading"`
	DraftLoading    bool            `json:"draftLoading"`
	SpeechLoading   bool            `json:"speechLoading"`
	RecordingPhase  RecordingPhase  `json:"recordingPhase"`
	Error           *ErrorState     `json:"error,omitempty"`
	Notice          string          `json:"notice,omitempty"`
}
