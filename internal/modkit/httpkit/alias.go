// Package httpkit is the HTTP surface modules build on; they never import the platform http package directly
package httpkit

import (
	"net/http"

	phttp "assistify/internal/platform/net/http"
	"assistify/internal/platform/net/http/bind"
)

type (
	// Envelope is the response body every endpoint writes
	Envelope = phttp.Envelope

	// Handler is a plain http.HandlerFunc
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// JSON decodes and validates a T from the body before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return phttp.Error(err)
		}
		return reply(fn(r, in))
	})
}

// Call adapts a handler without a request body
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response { return reply(fn(r)) })
}

// reply wraps out in a 200 envelope unless it already is a Response
func reply(out any, err error) phttp.Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(phttp.Response); ok {
		return resp
	}
	return phttp.OK(out)
}
