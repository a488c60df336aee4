package command

import (
	"context"

	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/core"
	gocmd "github.com/goliatone/go-command"
)

type ReportRequester interface {
	RequestAsyncMetricsReport(ctx context.Context, args core.AsyncMetricsReportArgs) (core.AsyncMetricsReportRecord, error)
}

type TokenRefresher interface {
	RefreshAuthToken(ctx context.Context) (string, error)
	AuthInfo() core.TokenInfo
}

type RequestAsyncReportCommand struct {
	service ReportRequester
}

func NewRequestAsyncReportCommand(service ReportRequester) *RequestAsyncReportCommand {
	return &RequestAsyncReportCommand{service: service}
}

// Execute stores the created core.AsyncMetricsReportRecord in the context
// result collector.
func (c *RequestAsyncReportCommand) Execute(ctx context.Context, msg RequestAsyncReportMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: report requester is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.RequestAsyncMetricsReport(ctx, msg.Args)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RefreshTokenCommand struct {
	service TokenRefresher
}

func NewRefreshTokenCommand(service TokenRefresher) *RefreshTokenCommand {
	return &RefreshTokenCommand{service: service}
}

// Execute stores the resulting core.TokenInfo, never the token itself.
func (c *RefreshTokenCommand) Execute(ctx context.Context, _ RefreshTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token refresher is required")
	}
	if _, err := c.service.RefreshAuthToken(ctx); err != nil {
		return err
	}
	storeResult(ctx, c.service.AuthInfo())
	return nil
}

type Service interface {
	ReportRequester
	TokenRefresher
}

func Subscribe(service Service) gocommand.Subscriptions {
	return gocommand.Subscriptions{
		gocommand.SubscribeCommand(NewRequestAsyncReportCommand(service)),
		gocommand.SubscribeCommand(NewRefreshTokenCommand(service)),
	}
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
