package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelOf(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"INFO":      zerolog.InfoLevel,
		" warning ": zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"":          zerolog.DebugLevel,
		"nonsense":  zerolog.DebugLevel,
	} {
		if got := levelOf(in); got != want {
			t.Fatalf("levelOf(%q) = %v want %v", in, got, want)
		}
	}
}

// Init is once per process so a single test owns it
func TestInit_ChildrenCarryFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Service: "svc-a", Writer: &buf})
	Init(Options{Level: "error", Service: "ignored", Writer: &bytes.Buffer{}})

	Get().Info().Msg("root-msg")
	Named("api").Info().Msg("named-msg")
	C(WithRequest(context.Background(), "req-123", "u-42")).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("filtered")

	out := buf.String()
	for _, want := range []string{
		`"root-msg"`, `"named-msg"`, `"ctx-msg"`,
		`"component":"api"`, `"request_id":"req-123"`, `"user_id":"u-42"`, `"service":"svc-a"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "filtered") || strings.Contains(out, "ignored") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if Get() != Named("") {
		t.Fatal("Named(\"\") should return the root logger")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_CALLER", "true")

	want := Options{Level: "warn", Format: "json", Service: "svc-b", WithCaller: true}
	if got := FromEnv(); got != want {
		t.Fatalf("FromEnv %+v want %+v", got, want)
	}
}

func TestWithRequest_SkipsEmpty(t *testing.T) {
	ctx := WithRequest(context.Background(), "", "")
	if ctx.Value(keyRequestID) != nil || ctx.Value(keyUserID) != nil {
		t.Fatal("empty ids should not be stored")
	}
}
