package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
)

type okMessage struct{}

func (okMessage) Type() string { return "quantcast.test.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "quantcast.test.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type echoMessage struct {
	Value string
}

func (echoMessage) Type() string { return "quantcast.test.echo" }

type storeMessage struct {
	Value int
}

func (storeMessage) Type() string { return "quantcast.test.store" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestQueryRoundTripThroughDispatcher(t *testing.T) {
	subs := Subscriptions{
		SubscribeQuery(command.QueryFunc[echoMessage, string](func(_ context.Context, msg echoMessage) (string, error) {
			return "echo:" + msg.Value, nil
		})),
	}
	defer subs.Unsubscribe()

	out, err := Query[echoMessage, string](context.Background(), echoMessage{Value: "hi"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if out != "echo:hi" {
		t.Fatalf("unexpected query result %q", out)
	}
}

func TestDispatchResultReturnsStoredValue(t *testing.T) {
	subs := Subscriptions{
		SubscribeCommand(command.CommandFunc[storeMessage](func(ctx context.Context, msg storeMessage) error {
			if collector := command.ResultFromContext[int](ctx); collector != nil {
				collector.Store(msg.Value * 2)
			}
			return nil
		})),
	}
	defer subs.Unsubscribe()

	out, err := DispatchResult[storeMessage, int](context.Background(), storeMessage{Value: 21})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out != 42 {
		t.Fatalf("expected stored result 42, got %d", out)
	}
}
