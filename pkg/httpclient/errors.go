package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/storefrontlabs/productsearch/pkg/errors"
)

// upstreamError is the error envelope returned by the catalog API.
type upstreamError struct {
	Message string `json:"message"`
}

// ParseResponseError converts a non-2xx upstream response into an
// application error. The response body is consumed but not closed.
func ParseResponseError(resp *http.Response, resource string) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Internal(fmt.Errorf("read %s error response: %w", resource, err))
	}

	var payload upstreamError
	message := ""
	if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil {
		message = payload.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(resource, message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	default:
		return apperrors.Unavailable(
			fmt.Sprintf("%s upstream returned %d: %s", resource, resp.StatusCode, message))
	}
}
