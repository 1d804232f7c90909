package app

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	got := stripANSI(in)
	want := "INFO plain ERR"
	if got != want {
		t.Fatalf("stripANSI()=%q want=%q", got, want)
	}
}

func TestPrettyHandler_PlainOutput(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	h := newPrettyHandler(&sb, &slog.HandlerOptions{Level: slog.LevelDebug}, false)

	r := slog.NewRecord(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), slog.LevelInfo, "http.request", 0)
	r.AddAttrs(
		slog.String("method", "post"),
		slog.String("path", "/auth/login"),
		slog.Int("status", 401),
		slog.Int64("duration_ms", 12),
		slog.String("result", "client_error"),
		slog.String("status_class", "4xx"),
	)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=http.request",
		"method=POST",
		"path=/auth/login",
		"status=401",
		"duration=12ms",
		"result=client_error",
		"class=4xx",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI codes without color: %q", out)
	}
}

func TestPrettyHandler_ColorOutputStripsClean(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	h := newPrettyHandler(&sb, nil, true)

	r := slog.NewRecord(time.Now(), slog.LevelError, "server.fail", 0)
	r.AddAttrs(slog.Int("status", 503))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	out := sb.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI codes with color: %q", out)
	}
	plain := stripANSI(out)
	if !strings.Contains(plain, "lvl=[ERROR]") || !strings.Contains(plain, "status=503") {
		t.Fatalf("unexpected stripped output: %q", plain)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	h := newPrettyHandler(&sb, &slog.HandlerOptions{Level: slog.LevelWarn}, false)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var attrOut strings.Builder
	withAttrs := newPrettyHandler(&attrOut, nil, false).WithAttrs([]slog.Attr{slog.String("component", "auth")})
	slog.New(withAttrs).Info("account.login.ok")
	if out := attrOut.String(); !strings.Contains(out, "component=auth") {
		t.Fatalf("expected inherited attr in %q", out)
	}

	var groupOut strings.Builder
	withGroup := newPrettyHandler(&groupOut, nil, false).WithGroup("req")
	slog.New(withGroup).Info("account.login.ok", "email", "user@example.com")
	if out := groupOut.String(); !strings.Contains(out, "req.email=user@example.com") {
		t.Fatalf("expected grouped key in %q", out)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: `""`},
		{in: "plain", want: "plain"},
		{in: "has space", want: `"has space"`},
		{in: `has"quote`, want: `"has\"quote"`},
	}
	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
