package rest

import (
	"context"
	"errors"
	"net/http"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// upstreamStatus maps a pipeline failure to an HTTP status. Anything that is
// not a timeout is reported as a bad gateway: the search backend, embedding
// service or scoring model failed.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}
