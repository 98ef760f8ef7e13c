package usecase

import (
	"testing"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

func TestConversationLogAppendsInPairs(t *testing.T) {
	t.Parallel()

	log := &conversationLog{}
	log.AppendExchange("hello", "ack")
	log.AppendExchange("more", "and more")

	turns := log.Turns()
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[1].Role != domain.RoleAI {
		t.Fatalf("expected user/ai order, got %+v", turns[:2])
	}
	if turns[2].Text != "more" || turns[3].Text != "and more" {
		t.Fatalf("unexpected second pair: %+v", turns[2:])
	}
}

func TestConversationLogTurnsReturnsCopy(t *testing.T) {
	t.Parallel()

	log := &conversationLog{}
	log.AppendExchange("hello", "ack")

	turns := log.Turns()
	turns[0].Text = "mutated"

	if got := log.Turns()[0].Text; got != "hello" {
		t.Fatalf("expected log to be isolated from callers, got %q", got)
	}
}

func TestConversationLogReset(t *testing.T) {
	t.Parallel()

	log := &conversationLog{}
	log.AppendExchange("hello", "ack")
	log.Reset()

	if got := log.Turns(); len(got) != 0 {
		t.Fatalf("expected empty log after reset, got %+v", got)
	}
}
