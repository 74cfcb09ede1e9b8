// Package http writes every response in one JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "assistify/internal/platform/net"
)

// Envelope is the response body of every endpoint: the error fields on failure, data on success
type Envelope struct {
	pnet.Wire
	Data any `json:"data,omitempty"`
}

// Response is what return-style handlers produce; an error Body selects the status itself
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error is a response whose status comes from the error code
func Error(err error) Response { return Response{Body: err} }

// JSON writes v with status as application/json
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		if resp.Status == stdhttp.StatusNoContent {
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		status, env := resp.envelope(pnet.RequestID(r.Context()))
		JSON(w, status, env)
	}
}

func (resp Response) envelope(reqID string) (int, Envelope) {
	if err, ok := resp.Body.(error); ok && err != nil {
		status, wire := pnet.Error(err, reqID)
		return status, Envelope{Wire: wire}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	return status, Envelope{
		Wire: pnet.Wire{StatusCode: status, Status: stdhttp.StatusText(status), RequestID: reqID},
		Data: resp.Body,
	}
}
