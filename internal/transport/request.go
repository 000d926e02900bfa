package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/tokenmap/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target and closes the body.
// A status other than 200 is returned as an APIError.
func DecodeResponse(resp *http.Response, provider, url string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := resp.Status
		if s := strings.TrimSpace(string(body)); s != "" {
			msg += ": " + s
		}
		return &errors.APIError{
			Provider:   provider,
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.APIError{
			Provider: provider,
			Endpoint: url,
			Message:  "failed to read response body",
			Err:      err,
		}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &errors.ParseError{
			Format:  "json",
			File:    url,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}
