package abilities

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "assistify/internal/platform/errors"
)

const maxBody = 4 << 20

func transient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func decodeResult(resp *http.Response) (any, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "read ability response")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "decode ability response")
	}
	return out, nil
}

// errorBody covers the shapes the platform uses for failures
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// statusError keeps the upstream message verbatim so callers can show it to the user
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()

	var eb errorBody
	msg := ""
	if json.Unmarshal(raw, &eb) == nil {
		msg = strings.TrimSpace(eb.Message)
		if msg == "" {
			msg = strings.TrimSpace(eb.Error)
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	code := perr.ErrorCodeUpstream
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = perr.ErrorCodeUnauthorized
	case http.StatusForbidden:
		code = perr.ErrorCodeForbidden
	case http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	case http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	}
	return perr.New(code, msg)
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
