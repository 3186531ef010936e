package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const sampleJSON = `[{"chats":{"A":{"name":"A","badges":[{"setID":"bot-badge"}],"nMessages":2,"terms":{"hi":2}}},` +
	`"stream":{"vod_id":42,"title":"first","created_at":"2024-01-01T12:00:00Z","duration":3600}}]`

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePlainAndGzip(t *testing.T) {
	for name, data := range map[string][]byte{
		"plain": []byte(sampleJSON),
		"gzip":  gzipped(t, sampleJSON),
	} {
		records, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if len(records) != 1 {
			t.Fatalf("%s: expected 1 record, got %d", name, len(records))
		}
		rec := records[0]
		if rec.Stream.VodID != 42 || rec.Chats["A"].NMessages != 2 || rec.Chats["A"].Badges[0].SetID != "bot-badge" {
			t.Fatalf("%s: unexpected record %+v", name, rec)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("{"))); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.json.gz")
	if err := os.WriteFile(path, gzipped(t, sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for missing file, got %v", err)
	}
}

func TestFetcherDownloadsAndCaches(t *testing.T) {
	var hits atomic.Int32
	body := gzipped(t, sampleJSON)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/channel/somechannel.json.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL, CacheDir: t.TempDir()}
	res, err := f.Fetch(context.Background(), "SomeChannel")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Cached || len(res.Records) != 1 || res.Size != int64(len(body)) {
		t.Fatalf("unexpected first result %+v", res)
	}

	res, err = f.Fetch(context.Background(), "somechannel")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !res.Cached || hits.Load() != 1 {
		t.Fatalf("expected cached result, hits=%d", hits.Load())
	}

	f.Refresh = true
	if _, err := f.Fetch(context.Background(), "somechannel"); err != nil {
		t.Fatalf("refresh fetch: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refresh to hit the server, hits=%d", hits.Load())
	}
}

func TestFetcherNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL}
	if _, err := f.Fetch(context.Background(), "nobody"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetcherWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL + "/"}
	res, err := f.Fetch(context.Background(), "chan")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Path != "" || len(res.Records) != 1 || res.Size != int64(len(sampleJSON)) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestChannelURL(t *testing.T) {
	f := &Fetcher{BaseURL: "https://example.org/data/"}
	got, err := f.ChannelURL("abc")
	if err != nil {
		t.Fatalf("channel url: %v", err)
	}
	if got != "https://example.org/data/channel/abc.json.gz" {
		t.Fatalf("unexpected url %q", got)
	}
	if _, err := (&Fetcher{}).ChannelURL("abc"); err == nil {
		t.Fatalf("expected error without base url")
	}
}
