package command

import (
	"github.com/JonathanRiche/go-quantcast/core"
)

const (
	TypeRequestAsyncReport = "quantcast.command.report.async_request"
	TypeRefreshToken       = "quantcast.command.auth.refresh"
)

type RequestAsyncReportMessage struct {
	Args core.AsyncMetricsReportArgs
}

func (RequestAsyncReportMessage) Type() string { return TypeRequestAsyncReport }

func (m RequestAsyncReportMessage) Validate() error {
	return commandWrapValidation(m.Args.Validate(), "command: invalid async report request")
}

type RefreshTokenMessage struct{}

func (RefreshTokenMessage) Type() string { return TypeRefreshToken }
