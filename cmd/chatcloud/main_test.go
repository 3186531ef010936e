package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/chatcloud/internal/model"
)

const sampleArchive = `[
{"stream":{"vod_id":1,"title":"first","created_at":"2024-01-01T12:00:00Z","duration":3600},
 "chats":{"A":{"nMessages":2,"terms":{"hi":2}},"B":{"nMessages":1,"terms":{"hi":1,"bye":1}}}},
{"stream":{"vod_id":2,"title":"second","created_at":"2024-01-02T12:00:00Z","duration":1800},
 "chats":{"A":{"nMessages":3,"terms":{"bye":3}},"nightbot":{"nMessages":9,"terms":{"!cmd":1}}}}
]`

func setupArchive(t *testing.T) (archivePath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	archivePath = filepath.Join(dir, "sample.json")
	if err := os.WriteFile(archivePath, []byte(sampleArchive), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return archivePath, filepath.Join(dir, "index.db")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestExportJSON(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	out := run(t, "export", "--file", archivePath, "--db", dbPath, "--utc")

	var doc exportDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out)
	}
	if doc.Channel != "sample" || len(doc.Dates) != 2 {
		t.Fatalf("unexpected export %+v", doc)
	}
	if doc.Dates[0].Date != "24/01/01" || doc.Dates[0].Words != 4 || doc.Dates[0].Messages != 3 {
		t.Fatalf("unexpected first date %+v", doc.Dates[0])
	}
	if doc.Terms[0].Term != "bye" || doc.Terms[0].Count != 4 {
		t.Fatalf("expected bye first, got %+v", doc.Terms)
	}
	if len(doc.Users) != 2 || doc.Users[0].Name != "A" || doc.Users[0].Count != 5 {
		t.Fatalf("expected bots left out, got %+v", doc.Users)
	}
}

func TestExportYAMLKeepBots(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	out := run(t, "export", "--file", archivePath, "--db", dbPath, "--utc", "--format", "yaml", "--keep-bots")
	for _, want := range []string{"channel: sample", "term: bye", "name: nightbot"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in export:\n%s", want, out)
		}
	}
}

func TestCloudTable(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	out := run(t, "cloud", "--file", archivePath, "--db", dbPath, "--utc", "--exclude", "hi")
	if !strings.Contains(out, "bye") || strings.Contains(out, "hi ") {
		t.Fatalf("unexpected cloud table:\n%s", out)
	}
	if strings.Contains(out, "!cmd") {
		t.Fatalf("expected bot terms left out:\n%s", out)
	}
}

func TestCloudHTML(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	page := filepath.Join(t.TempDir(), "cloud.html")
	run(t, "cloud", "--file", archivePath, "--db", dbPath, "--utc", "--out", page)
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(data), "wordCloud") || !strings.Contains(string(data), "Term Trends") {
		t.Fatalf("expected cloud and trends in page")
	}
}

func TestTrendsTerminal(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	out := run(t, "trends", "--file", archivePath, "--db", dbPath, "--utc", "--by-user")
	if !strings.Contains(out, "User Trends") || !strings.Contains(out, "Dates: 24/01/01 .. 24/01/02") {
		t.Fatalf("unexpected trends output:\n%s", out)
	}
}

func TestChannelsListsLoaded(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	run(t, "export", "--file", archivePath, "--db", dbPath, "--utc")

	out := run(t, "channels", "--db", dbPath)
	if !strings.Contains(out, "sample") {
		t.Fatalf("expected channel in list:\n%s", out)
	}
	out = run(t, "channels", "sample", "--db", dbPath)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected streams in list:\n%s", out)
	}
}

func TestValidateOptions(t *testing.T) {
	base := model.ViewOptions{Palette: "nuuk", NTerms: 10, ScaleFactor: 1, Streams: "n10"}
	if err := validateOptions(base, time.UTC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []model.ViewOptions{base, base, base, base}
	bad[0].NTerms = 0
	bad[1].ScaleFactor = -1
	bad[2].Palette = "nope"
	bad[3].Streams = "x"
	for i, opts := range bad {
		if err := validateOptions(opts, time.UTC); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestUTCRangeMatchesDateKeys(t *testing.T) {
	archivePath, dbPath := setupArchive(t)
	early := `[{"stream":{"vod_id":3,"title":"early","created_at":"2024-01-02T04:30:00Z","duration":60},
 "chats":{"A":{"nMessages":1,"terms":{"hi":1}}}}]`
	if err := os.WriteFile(archivePath, []byte(early), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	prev := time.Local
	time.Local = time.FixedZone("minus5", -5*3600)
	t.Cleanup(func() { time.Local = prev })

	out := run(t, "export", "--file", archivePath, "--db", dbPath, "--utc", "--streams", "20240102,20240102")
	var doc exportDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out)
	}
	if len(doc.Dates) != 1 || doc.Dates[0].Date != "24/01/02" {
		t.Fatalf("expected the 24/01/02 stream, got %+v", doc.Dates)
	}
}

func TestChannelFromPath(t *testing.T) {
	if got := channelFromPath("/tmp/SomeChannel.json.gz"); got != "somechannel" {
		t.Fatalf("unexpected channel %q", got)
	}
}

func TestWriteExportUnknownFormat(t *testing.T) {
	if err := writeExport(&bytes.Buffer{}, "csv", exportDoc{}); err == nil {
		t.Fatalf("expected error")
	}
}
