package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RequestAsyncReportMessage] = (*RequestAsyncReportCommand)(nil)
	_ gocmd.Commander[RefreshTokenMessage]       = (*RefreshTokenCommand)(nil)
)
