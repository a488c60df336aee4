package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	goerrors "github.com/goliatone/go-errors"
)

const KindGraphQL = "graphql"

// GraphQLAdapter posts encoded GraphQL envelopes to a single endpoint.
type GraphQLAdapter struct {
	Endpoint  string
	Transport core.TransportAdapter
}

func NewGraphQLAdapter(endpoint string, client HTTPDoer) *GraphQLAdapter {
	return &GraphQLAdapter{
		Endpoint:  strings.TrimSpace(endpoint),
		Transport: NewHTTPAdapter(client),
	}
}

func (*GraphQLAdapter) Kind() string {
	return KindGraphQL
}

// Encode renders the request body. Variables are always present and
// serialize as {} when empty.
func (a *GraphQLAdapter) Encode(req core.GraphQLRequest) ([]byte, error) {
	payload := map[string]any{
		"query":     req.Query,
		"variables": req.Variables,
	}
	if req.Variables == nil {
		payload["variables"] = map[string]any{}
	}
	if operationName := strings.TrimSpace(req.OperationName); operationName != "" {
		payload["operationName"] = operationName
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: marshal graphql payload",
			http.StatusBadRequest,
			map[string]any{"adapter": KindGraphQL, "operation_name": req.OperationName},
		)
	}
	return body, nil
}

// Post sends an encoded body with the given headers. Non-2xx statuses are
// returned as responses, not errors.
func (a *GraphQLAdapter) Post(
	ctx context.Context,
	body []byte,
	headers map[string]string,
	timeout time.Duration,
	maxResponseBodyBytes int64,
) (core.TransportResponse, error) {
	if a == nil || a.Transport == nil {
		return core.TransportResponse{}, transportError(
			"transport: graphql adapter requires a transport",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindGraphQL},
		)
	}
	if strings.TrimSpace(a.Endpoint) == "" {
		return core.TransportResponse{}, transportError(
			"transport: graphql endpoint is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindGraphQL},
		)
	}

	merged := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for key, value := range headers {
		merged[key] = value
	}

	response, err := a.Transport.Do(ctx, core.TransportRequest{
		Method:               http.MethodPost,
		URL:                  a.Endpoint,
		Headers:              merged,
		Body:                 body,
		Timeout:              timeout,
		MaxResponseBodyBytes: maxResponseBodyBytes,
	})
	if err != nil {
		return core.TransportResponse{}, err
	}
	response.Metadata = ensureMetadata(response.Metadata)
	response.Metadata["kind"] = KindGraphQL
	return response, nil
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
