package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/chatcloud/internal/model"
)

// DefaultMaxAge is how long a cached archive is reused before refetching.
const DefaultMaxAge = 6 * time.Hour

// Fetcher downloads channel archives from a collection server and caches them.
type Fetcher struct {
	BaseURL string
	// CacheDir holds downloaded archives; empty disables caching.
	CacheDir string
	MaxAge   time.Duration
	// Refresh ignores cached archives.
	Refresh bool
	Client  *http.Client
	Logger  *slog.Logger
}

// Result is a fetched archive.
type Result struct {
	Channel string
	Records []*model.ChatRecord
	Path    string
	Cached  bool
	Size    int64
}

// ChannelURL returns the archive URL for a channel.
func (f *Fetcher) ChannelURL(channel string) (string, error) {
	if f.BaseURL == "" {
		return "", fmt.Errorf("archive base url is required")
	}
	base, err := url.Parse(strings.TrimRight(f.BaseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	return base.JoinPath("channel", channelFile(channel)).String(), nil
}

// Fetch returns the records for a channel, from the cache when fresh.
func (f *Fetcher) Fetch(ctx context.Context, channel string) (Result, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return Result{}, fmt.Errorf("channel is required")
	}
	logger := f.logger()

	if f.CacheDir != "" && !f.Refresh {
		path := filepath.Join(f.CacheDir, channelFile(channel))
		if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < f.maxAge() {
			records, err := loadFile(path)
			if err == nil {
				logger.Debug("using cached archive", "channel", channel, "path", path,
					"size", humanize.Bytes(uint64(info.Size())), "age", humanize.Time(info.ModTime()))
				return Result{Channel: channel, Records: records, Path: path, Cached: true, Size: info.Size()}, nil
			}
			logger.Warn("discarding unreadable cached archive", "path", path, "err", err)
		}
	}

	src, err := f.ChannelURL(channel)
	if err != nil {
		return Result{}, err
	}
	resp, err := httpRequest(ctx, f.Client, src)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		if errors.Is(err, ErrNoData) {
			return Result{}, fmt.Errorf("%w: %s", ErrNoData, channel)
		}
		return Result{}, err
	}

	if f.CacheDir == "" {
		counter := &countingReader{r: resp.Body}
		records, err := Decode(counter)
		if err != nil {
			return Result{}, err
		}
		logger.Debug("fetched archive", "channel", channel, "size", humanize.Bytes(uint64(counter.n)))
		return Result{Channel: channel, Records: records, Size: counter.n}, nil
	}

	path, size, err := f.store(channel, resp.Body)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("fetched archive", "channel", channel, "path", path, "size", humanize.Bytes(uint64(size)))
	records, err := loadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Result{Channel: channel, Records: records, Path: path, Size: size}, nil
}

func (f *Fetcher) store(channel string, body io.Reader) (string, int64, error) {
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(f.CacheDir, channel+"-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	size, err := io.Copy(tmpFile, body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to download archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close temp archive: %w", err)
	}
	destPath := filepath.Join(f.CacheDir, channelFile(channel))
	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", 0, fmt.Errorf("failed to move archive into cache: %w", err)
	}
	return destPath, size, nil
}

func (f *Fetcher) maxAge() time.Duration {
	if f.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return f.MaxAge
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.Logger
}

func channelFile(channel string) string {
	return channel + ".json.gz"
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
