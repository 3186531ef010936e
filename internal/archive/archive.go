// Package archive loads collected channel chat archives.
package archive

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/chatcloud/internal/model"
)

// ErrNoData means no chat has been collected for the requested channel.
var ErrNoData = errors.New("chat has not been collected for this channel")

var gzipMagic = []byte{0x1f, 0x8b}

// Decode reads a JSON array of chat records, gunzipping it first when the
// stream starts with the gzip magic bytes.
func Decode(r io.Reader) ([]*model.ChatRecord, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	var src io.Reader = br
	if len(head) == len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() {
			_ = zr.Close()
		}()
		src = zr
	}
	var records []*model.ChatRecord
	if err := json.NewDecoder(src).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	return records, nil
}

// Load reads records from a local path or an http(s) URL.
func Load(ctx context.Context, src string) ([]*model.ChatRecord, error) {
	if src == "" {
		return nil, fmt.Errorf("archive source is required")
	}
	if isURL(src) {
		resp, err := httpRequest(ctx, nil, src)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if err := checkStatus(resp); err != nil {
			return nil, err
		}
		return Decode(resp.Body)
	}
	return loadFile(src)
}

func loadFile(path string) ([]*model.ChatRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoData, path)
		}
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only archive.
			_ = cerr
		}
	}()
	return Decode(file)
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		return ErrNoData
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected archive status: %s", resp.Status)
	}
	return nil
}

func httpRequest(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
