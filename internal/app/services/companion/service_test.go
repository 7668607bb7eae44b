package companion

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type echoChatter struct {
	turns [][]Turn
}

func (c *echoChatter) Chat(_ context.Context, history []Turn, message string) (string, error) {
	c.turns = append(c.turns, history)
	return "echo: " + message, nil
}

func TestSessionKeepsHistory(t *testing.T) {
	svc := New(nil)
	chatter := &echoChatter{}
	svc.AttachAI(chatter)

	session, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	ctx := context.Background()
	reply, err := session.Send(ctx, "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "echo: hello" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if _, err := session.Send(ctx, "how are you"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Second call must have seen the first exchange.
	if len(chatter.turns[1]) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(chatter.turns[1]))
	}
	if chatter.turns[1][0].Role != RoleUser || chatter.turns[1][1].Role != RoleAura {
		t.Fatalf("unexpected roles: %+v", chatter.turns[1])
	}

	history := session.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 stored turns, got %d", len(history))
	}
}

func TestSessionTrimsHistory(t *testing.T) {
	svc := New(nil)
	svc.AttachAI(&echoChatter{})
	session, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < maxHistoryTurns; i++ {
		if _, err := session.Send(ctx, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	if got := len(session.History()); got != maxHistoryTurns {
		t.Fatalf("history length: got %d, want %d", got, maxHistoryTurns)
	}
}

func TestSessionValidation(t *testing.T) {
	svc := New(nil)
	if _, err := svc.NewSession(); !errors.Is(err, ErrNoCollaborator) {
		t.Fatalf("expected ErrNoCollaborator, got %v", err)
	}

	svc.AttachAI(&echoChatter{})
	session, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := session.Send(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank message")
	}
}
