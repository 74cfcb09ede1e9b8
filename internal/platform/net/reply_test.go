package net_test

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	perr "assistify/internal/platform/errors"
	pnet "assistify/internal/platform/net"
)

func TestError_MapsProjectErrors(t *testing.T) {
	status, w := pnet.Error(perr.Unauthorizedf("unknown token"), "rid-1")
	if status != http.StatusUnauthorized {
		t.Fatalf("status %d want %d", status, http.StatusUnauthorized)
	}
	want := pnet.Wire{
		StatusCode: http.StatusUnauthorized,
		Status:     "Unauthorized",
		Code:       perr.ErrorCodeUnauthorized,
		Error:      "unknown token",
		RequestID:  "rid-1",
	}
	if !reflect.DeepEqual(w, want) {
		t.Fatalf("wire %+v want %+v", w, want)
	}

	status, w = pnet.Error(perr.WithField(perr.InvalidArgf("bad entry"), "token"), "")
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d want 422", status)
	}
	if w.Field != "token" {
		t.Fatalf("field %q want token", w.Field)
	}

	status, w = pnet.Error(errors.New("boom"), "rid-2")
	if status != http.StatusInternalServerError || w.Error != "boom" {
		t.Fatalf("plain error: %d %+v", status, w)
	}
}

func TestError_NilIsOK(t *testing.T) {
	status, w := pnet.Error(nil, "rid-3")
	if status != http.StatusOK {
		t.Fatalf("status %d want 200", status)
	}
	if w.RequestID != "rid-3" || w.Error != "" {
		t.Fatalf("wire %+v", w)
	}
}
