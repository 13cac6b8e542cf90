package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type renameCommand struct{ name string }

func (renameCommand) Key() string { return "test.rename" }

func TestDispatchRegistersUnderTypeKey(t *testing.T) {
	if got := KeyOf[renameCommand](); got != "test.rename" {
		t.Fatalf("KeyOf = %q", got)
	}
	bus := NewInMemoryBus()
	RegisterHandler[renameCommand, string](bus, HandlerFunc[renameCommand, string](func(_ context.Context, cmd renameCommand) (string, error) {
		return "renamed:" + cmd.name, nil
	}))

	got, err := Dispatch[renameCommand, string](context.Background(), bus, renameCommand{name: "pine"})
	if err != nil || got != "renamed:pine" {
		t.Fatalf("Dispatch = %q, %v", got, err)
	}
	_, err = Dispatch[renameCommand, int](context.Background(), bus, renameCommand{})
	if !errors.Is(err, ErrResultType) || !strings.Contains(err.Error(), "test.rename") {
		t.Fatalf("err = %v, want ErrResultType naming the command", err)
	}
	if _, err := Dispatch[renameCommand, string](context.Background(), nil, renameCommand{}); !errors.Is(err, ErrNilBus) {
		t.Fatalf("err = %v, want ErrNilBus", err)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	if _, err := NewInMemoryBus().Dispatch(context.Background(), renameCommand{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("err = %v, want ErrHandlerNotFound", err)
	}
}
