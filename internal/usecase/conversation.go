package usecase

import (
	"sync"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

// conversationLog is the ordered, append-only record of completed exchanges.
// Turns only ever land in user/ai pairs, so the log is never observed with an
// unmatched trailing user turn.
type conversationLog struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// AppendExchange records one completed round-trip.
func (l *conversationLog) AppendExchange(userText string, aiText string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns,
		domain.Turn{Role: domain.RoleUser, Text: userText},
		domain.Turn{Role: domain.RoleAI, Text: aiText},
	)
}

// Reset drops all turns; used only when a new session starts.
func (l *conversationLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}

// Turns returns a copy safe to hand to the UI or serialize into a request.
func (l *conversationLog) Turns() []domain.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}
