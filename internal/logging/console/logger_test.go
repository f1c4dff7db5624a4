package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/logging/console"
)

func TestConsoleLogger_WritesSharedFieldsFirst(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.SessionLogger(provider)
	logger = logging.WithPageContext(logger, "/about", "", "")
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	pageID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger = logger.WithContext(logging.ContextWithSave(ctx, pageID, 3))

	logger.Warn("session.save.remote_failed", "error", "connection refused")

	got := strings.TrimSpace(buf.String())
	want := `2026-03-14T15:09:26.535897Z WARN [sitepages.session] session.save.remote_failed module=sitepages.session page_slug=/about page_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 sequence=3 correlation_id=req-1234 error="connection refused"`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_ArgEdgeCases(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, TimeFunc: time.Now})

	provider.GetLogger("").Info("pages.seed.created", "slug", "", 7, nil, "dangling")

	got := strings.TrimSpace(buf.String())
	if !strings.HasSuffix(got, ` INFO pages.seed.created !BADKEY=dangling 7=null slug=""`) {
		t.Fatalf("unexpected entry %q", got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("sitepages.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input   string
		want    console.Level
		wantErr bool
	}{
		{input: "", want: console.LevelInfo},
		{input: "DEBUG", want: console.LevelDebug},
		{input: " warning ", want: console.LevelWarn},
		{input: "fatal", want: console.LevelFatal},
		{input: "loud", want: console.LevelInfo, wantErr: true},
	}
	for _, tc := range cases {
		got, err := console.ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: expected error=%v got %v", tc.input, tc.wantErr, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %s got %s", tc.input, tc.want, got)
		}
	}
}
