// Package main provides the CLI entrypoint for chatcloud.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/archive"
	"github.com/verte-zerg/chatcloud/internal/bots"
	"github.com/verte-zerg/chatcloud/internal/config"
	"github.com/verte-zerg/chatcloud/internal/datebin"
	"github.com/verte-zerg/chatcloud/internal/model"
	"github.com/verte-zerg/chatcloud/internal/palette"
	"github.com/verte-zerg/chatcloud/internal/rank"
	"github.com/verte-zerg/chatcloud/internal/render"
	"github.com/verte-zerg/chatcloud/internal/stats"
	"github.com/verte-zerg/chatcloud/internal/statsui"
	"github.com/verte-zerg/chatcloud/internal/store"
	"github.com/verte-zerg/chatcloud/internal/wordlist"
)

const (
	defaultNTerms      = 500
	defaultScaleFactor = 1.0
	defaultStreams     = "n100"
	defaultStreamsList = 20
	defaultTrendWindow = 1
	defaultSeries      = 5
)

var (
	sourceFile     string
	sourceBaseURL  string
	sourceCacheDir string
	sourceDBPath   string
	sourceRefresh  bool
	verbose        bool
	useUTC         bool

	viewPalette        string
	viewReversePalette bool
	viewKeepBots       bool
	viewKeepAts        bool
	viewNTerms         int
	viewScaleFactor    float64
	viewTrendScale     bool
	viewByCount        bool
	viewToPercent      bool
	viewStreams        string
	viewWeightedTrend  bool
	viewExclude        string
	viewUsers          []string
	viewTerms          []string

	outPath      string
	trendsByUser bool
	trendsWindow int
	exportFormat string
	streamsLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chatcloud [channel]",
		Short:         "Chat word clouds and term trends for stream archives",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runBrowseCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sourceFile, "file", "", "read a local archive (.json or .json.gz) or URL instead of fetching")
	pf.StringVar(&sourceBaseURL, "base-url", "", "archive server base URL")
	pf.StringVar(&sourceCacheDir, "cache-dir", config.DefaultCacheDir(), "directory for downloaded archives")
	pf.StringVar(&sourceDBPath, "db", config.DefaultDBPath(), "channel index database")
	pf.BoolVar(&sourceRefresh, "refresh", false, "ignore cached archives")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&useUTC, "utc", false, "bucket streams by UTC date instead of local date")

	pf.StringVar(&viewPalette, "palette", palette.Default, "colour palette ("+strings.Join(palette.Names(), ", ")+")")
	pf.BoolVar(&viewReversePalette, "reverse-palette", false, "reverse the palette")
	pf.BoolVar(&viewKeepBots, "keep-bots", false, "include bot accounts")
	pf.BoolVar(&viewKeepAts, "keep-ats", false, "include @mention terms")
	pf.IntVar(&viewNTerms, "n-terms", defaultNTerms, "number of cloud terms")
	pf.Float64Var(&viewScaleFactor, "scale-factor", defaultScaleFactor, "cloud weight exponent")
	pf.BoolVar(&viewTrendScale, "trend-scale", true, "scale cloud weights by trend strength")
	pf.BoolVar(&viewByCount, "by-count", true, "rank by count (false ranks by trend)")
	pf.BoolVar(&viewToPercent, "to-percent", true, "normalize trends to percent of the day")
	pf.StringVar(&viewStreams, "streams", defaultStreams, "streams selector: nN or YYYYMMDD,YYYYMMDD")
	pf.BoolVar(&viewWeightedTrend, "weighted-trend", true, "score trends on the share of daily words")
	pf.StringVar(&viewExclude, "exclude", "", "excluded terms: comma list or file:<path>")
	pf.StringSliceVar(&viewUsers, "users", nil, "selected users")
	pf.StringSliceVar(&viewTerms, "terms", nil, "selected terms")

	rootCmd.AddCommand(newCloudCmd())
	rootCmd.AddCommand(newTrendsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newChannelsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session is a loaded and aggregated channel.
type session struct {
	channel  string
	records  []*model.ChatRecord
	opts     model.ViewOptions
	binner   *datebin.Binner
	excluded wordlist.Set
	ds       *model.Dataset
	bots     *bots.Classifier
	pal      palette.Palette
	logger   *slog.Logger
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadSession merges config into flags, validates, loads the archive and
// aggregates it.
func loadSession(cmd *cobra.Command, args []string) (*session, error) {
	logger := newLogger()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	var loc *time.Location
	if useUTC {
		loc = time.UTC
	}
	binner := datebin.New(loc)

	opts := viewOptions()
	if err := validateOptions(opts, binner.Location()); err != nil {
		return nil, err
	}
	pal, err := palette.Get(opts.Palette)
	if err != nil {
		return nil, err
	}
	excluded, err := wordlist.Resolve(opts.Exclude)
	if err != nil {
		return nil, err
	}
	sel, err := aggregate.ParseSelector(opts.Streams, binner.Location())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	channel, source, records, err := loadRecords(ctx, args, logger)
	if err != nil {
		return nil, err
	}
	recordChannel(ctx, logger, channel, source, records)

	classifier := bots.New()
	ds := aggregate.Aggregate(records, aggregate.Options{
		Selector:      sel,
		Classifier:    classifier,
		Binner:        binner,
		WeightedTrend: opts.WeightedTrend,
	})
	for _, w := range ds.Warnings {
		logger.Warn("stream skipped", "position", w.Position, "stream", w.StreamID, "reason", w.Reason)
	}
	logger.Debug("aggregated",
		"channel", channel,
		"streams", len(ds.Records),
		"dates", ds.NDates(),
		"users", len(ds.UserOrder),
		"terms", len(ds.TermOrder))

	return &session{
		channel:  channel,
		records:  records,
		opts:     opts,
		binner:   binner,
		excluded: excluded,
		ds:       ds,
		bots:     classifier,
		pal:      pal,
		logger:   logger,
	}, nil
}

func loadRecords(ctx context.Context, args []string, logger *slog.Logger) (channel, source string, records []*model.ChatRecord, err error) {
	if len(args) > 0 {
		channel = strings.ToLower(strings.TrimSpace(args[0]))
	}
	if sourceFile != "" {
		records, err = archive.Load(ctx, sourceFile)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to load %s: %w", sourceFile, err)
		}
		if channel == "" {
			channel = channelFromPath(sourceFile)
		}
		return channel, sourceFile, records, nil
	}
	if channel == "" {
		return "", "", nil, fmt.Errorf("a channel name or --file is required")
	}
	if sourceBaseURL == "" {
		return "", "", nil, fmt.Errorf("no archive server configured: set --base-url or [source] base-url in %s", config.DefaultConfigPath())
	}
	fetcher := &archive.Fetcher{
		BaseURL:  sourceBaseURL,
		CacheDir: sourceCacheDir,
		Refresh:  sourceRefresh,
		Logger:   logger,
	}
	res, err := fetcher.Fetch(ctx, channel)
	if err != nil {
		if errors.Is(err, archive.ErrNoData) {
			return "", "", nil, fmt.Errorf("%s: %w", channel, err)
		}
		return "", "", nil, fmt.Errorf("failed to fetch %s: %w", channel, err)
	}
	source, _ = fetcher.ChannelURL(channel)
	return res.Channel, source, res.Records, nil
}

func channelFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".json"} {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToLower(base)
}

// recordChannel updates the channel index. Failures are logged, not returned.
func recordChannel(ctx context.Context, logger *slog.Logger, channel, source string, records []*model.ChatRecord) {
	st, err := store.Open(sourceDBPath)
	if err != nil {
		logger.Warn("failed to open channel index", "err", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close channel index", "err", cerr)
		}
	}()
	if err := st.RecordChannel(ctx, channel, source, records, time.Now()); err != nil {
		logger.Warn("failed to record channel", "channel", channel, "err", err)
	}
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	m, err := statsui.NewModel(statsui.Config{
		Channel:  s.channel,
		Records:  s.records,
		Options:  s.opts,
		Binner:   s.binner,
		Excluded: s.excluded,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newCloudCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cloud [channel]",
		Short: "Rank cloud terms; write an HTML word cloud with --out",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCloudCmd,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write an HTML page to this path")
	return cmd
}

func (s *session) cloudTerms() []rank.WeightedTerm {
	counts := aggregate.TermCounts(s.ds, aggregate.CloudFilter{
		Users:    s.opts.Users,
		KeepBots: s.opts.KeepBots,
		KeepAts:  s.opts.KeepAts,
		Keep:     wordlist.TermFilter(s.excluded, s.opts.KeepAts),
	})
	return rank.Cloud(counts, s.ds.TermStats, rank.CloudOptions{
		Policy:      model.ByWeight,
		NTerms:      s.opts.NTerms,
		ScaleFactor: s.opts.ScaleFactor,
		TrendScale:  s.opts.TrendScale,
		PaletteLen:  len(s.pal),
		Reverse:     s.opts.ReversePalette,
	})
}

func runCloudCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	terms := s.cloudTerms()
	if outPath == "" {
		rows := make([][]string, len(terms))
		for i, t := range terms {
			rows[i] = []string{
				t.Name,
				humanize.Comma(int64(t.Count)),
				fmt.Sprintf("%+.3f", t.Cor),
				humanize.FtoaWithDigits(t.Weight, 3),
			}
		}
		return stats.RenderTable(cmd.OutOrStdout(), stats.Table{
			Title:      fmt.Sprintf("%s: %d terms", s.channel, len(terms)),
			Headers:    []string{"Term", "Count", "Trend", "Weight"},
			Rows:       rows,
			RightAlign: map[int]bool{1: true, 2: true, 3: true},
		})
	}

	cloudOpts := render.DefaultCloudOptions()
	cloudOpts.Title = s.channel
	cloud, err := render.Cloud(terms, s.pal, cloudOpts)
	if err != nil {
		return err
	}
	names := s.opts.Terms
	if len(names) == 0 {
		names = topNames(terms, defaultSeries)
	}
	series := aggregate.Extract(s.ds, aggregate.Selection{Users: s.opts.Users, Terms: names}, s.opts.ToPercent)
	trends := render.Trends(s.ds.DateKeys(), names, series.Terms, s.pal, render.TrendOptions{
		Title:   "Term Trends",
		YLabel:  yLabel(s.opts.ToPercent, "words"),
		Reverse: s.opts.ReversePalette,
	})
	return writePage(s, render.Page(s.channel, cloud, trends))
}

func topNames(terms []rank.WeightedTerm, n int) []string {
	out := make([]string, 0, min(n, len(terms)))
	for _, t := range terms[:min(n, len(terms))] {
		out = append(out, t.Name)
	}
	return out
}

func yLabel(percent bool, of string) string {
	if percent {
		return "% of " + of
	}
	return of
}

func writePage(s *session, page *components.Page) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := render.Write(f, page); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	s.logger.Info("wrote page", "path", outPath)
	return nil
}

func newTrendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends [channel]",
		Short: "Plot term or user trends over stream dates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrendsCmd,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write an HTML page to this path")
	cmd.Flags().BoolVar(&trendsByUser, "by-user", false, "plot users instead of terms")
	cmd.Flags().IntVar(&trendsWindow, "window", defaultTrendWindow, "moving average window for terminal plots")
	return cmd
}

func runTrendsCmd(cmd *cobra.Command, args []string) error {
	if trendsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	names, vectors, title, unit := s.trendSeries()

	if outPath != "" {
		chart := render.Trends(s.ds.DateKeys(), names, vectors, s.pal, render.TrendOptions{
			Title:   title,
			YLabel:  yLabel(s.opts.ToPercent, unit),
			Reverse: s.opts.ReversePalette,
		})
		return writePage(s, render.Page(s.channel, chart))
	}

	values := make(map[string][]float64, len(vectors))
	for name, v := range vectors {
		values[name] = v
	}
	return stats.RenderTrends(cmd.OutOrStdout(), s.ds.DateKeys(), names, values, stats.TrendOptions{
		Title:   title,
		Window:  trendsWindow,
		Height:  10,
		Percent: s.opts.ToPercent,
	})
}

// trendSeries picks the plotted names, defaulting to the top ranked ones.
func (s *session) trendSeries() (names []string, vectors map[string]model.Vector, title, unit string) {
	if trendsByUser {
		names = s.opts.Users
		if len(names) == 0 {
			ranked := rank.RankUsers(s.ds, s.botFilter())
			names = ranked[:min(defaultSeries, len(ranked))]
		}
		series := aggregate.Extract(s.ds, aggregate.Selection{Users: names, Terms: s.opts.Terms}, s.opts.ToPercent)
		return names, series.Users, "User Trends", "messages"
	}
	names = s.opts.Terms
	if len(names) == 0 {
		keep := wordlist.TermFilter(s.excluded, s.opts.KeepAts)
		for _, term := range rank.RankTerms(s.ds, s.opts.Policy()) {
			if len(names) == defaultSeries {
				break
			}
			if keep(term) {
				names = append(names, term)
			}
		}
	}
	series := aggregate.Extract(s.ds, aggregate.Selection{Users: s.opts.Users, Terms: names}, s.opts.ToPercent)
	return names, series.Terms, "Term Trends", "words"
}

func (s *session) botFilter() func(string) bool {
	if s.opts.KeepBots {
		return nil
	}
	return s.bots.Known
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [channel]",
		Short: "Export dates, term stats and user counts as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default stdout)")
	cmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
	return cmd
}

type exportDate struct {
	Date     string `json:"date" yaml:"date"`
	Streams  int    `json:"streams" yaml:"streams"`
	Messages int    `json:"messages" yaml:"messages"`
	Words    int    `json:"words" yaml:"words"`
}

type exportTerm struct {
	Term   string    `json:"term" yaml:"term"`
	Count  int       `json:"count" yaml:"count"`
	Cor    float64   `json:"cor" yaml:"cor"`
	Series []float64 `json:"series" yaml:"series,flow"`
}

type exportDoc struct {
	Channel  string        `json:"channel" yaml:"channel"`
	Streams  string        `json:"streams" yaml:"streams"`
	Dates    []exportDate  `json:"dates" yaml:"dates"`
	Terms    []exportTerm  `json:"terms" yaml:"terms"`
	Users    []rank.Entry  `json:"users" yaml:"users"`
	Warnings []exportIssue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type exportIssue struct {
	Position int    `json:"position" yaml:"position"`
	StreamID int64  `json:"stream_id" yaml:"stream_id"`
	Reason   string `json:"reason" yaml:"reason"`
}

func (s *session) export() exportDoc {
	doc := exportDoc{Channel: s.channel, Streams: s.opts.Streams}
	for _, d := range s.ds.Dates {
		doc.Dates = append(doc.Dates, exportDate{
			Date:     d.Key,
			Streams:  len(d.Records),
			Messages: d.Messages,
			Words:    d.Words,
		})
	}
	keep := wordlist.TermFilter(s.excluded, s.opts.KeepAts)
	for _, term := range rank.RankTerms(s.ds, s.opts.Policy()) {
		if len(doc.Terms) == s.opts.NTerms {
			break
		}
		if !keep(term) {
			continue
		}
		st := s.ds.TermStats[term]
		doc.Terms = append(doc.Terms, exportTerm{Term: term, Count: st.Count, Cor: st.Cor, Series: s.ds.Terms[term]})
	}
	for _, user := range rank.RankUsers(s.ds, s.botFilter()) {
		doc.Users = append(doc.Users, rank.Entry{Name: user, Count: s.ds.UserCounts[user]})
	}
	for _, w := range s.ds.Warnings {
		doc.Warnings = append(doc.Warnings, exportIssue{Position: w.Position, StreamID: w.StreamID, Reason: w.Reason})
	}
	return doc
}

func writeExport(w io.Writer, format string, doc exportDoc) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (use json or yaml)", format)
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	exportFormat = strings.ToLower(strings.TrimSpace(exportFormat))
	if exportFormat != "json" && exportFormat != "yaml" && exportFormat != "yml" {
		return fmt.Errorf("--format must be json or yaml")
	}
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	doc := s.export()
	if outPath == "" {
		return writeExport(cmd.OutOrStdout(), exportFormat, doc)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := writeExport(f, exportFormat, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	s.logger.Info("wrote export", "path", outPath, "terms", len(doc.Terms), "users", len(doc.Users))
	return nil
}

func newChannelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels [channel]",
		Short: "List loaded channels, or the streams of one channel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runChannelsCmd,
	}
	cmd.Flags().IntVar(&streamsLimit, "last", defaultStreamsList, "number of recent streams to list")
	return cmd
}

func runChannelsCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &sourceDBPath, fileCfg.Source.DBPath)

	st, err := store.Open(sourceDBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		channels, err := st.ListChannels(ctx)
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			logger.Info("no channels loaded yet")
			return nil
		}
		rows := make([][]string, len(channels))
		for i, c := range channels {
			rows[i] = []string{
				c.Name,
				humanize.Comma(int64(c.Streams)),
				humanize.Comma(int64(c.Messages)),
				humanize.Time(c.LoadedAt),
				c.Source,
			}
		}
		return stats.RenderTable(out, stats.Table{
			Headers:    []string{"Channel", "Streams", "Messages", "Loaded", "Source"},
			Rows:       rows,
			RightAlign: map[int]bool{1: true, 2: true},
		})
	}

	if streamsLimit < 1 {
		return fmt.Errorf("--last must be >= 1")
	}
	channel := strings.ToLower(strings.TrimSpace(args[0]))
	streams, err := st.ListStreams(ctx, channel, streamsLimit)
	if err != nil {
		return err
	}
	rows := make([][]string, len(streams))
	for i, s := range streams {
		rows[i] = []string{
			s.CreatedAt,
			fmt.Sprint(s.VodID),
			(time.Duration(s.Duration) * time.Second).String(),
			humanize.Comma(int64(s.Users)),
			humanize.Comma(int64(s.Messages)),
			humanize.Comma(int64(s.Words)),
			s.Title,
		}
	}
	return stats.RenderTable(out, stats.Table{
		Title:      channel,
		Headers:    []string{"Started", "ID", "Length", "Users", "Messages", "Words", "Title"},
		Rows:       rows,
		RightAlign: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := config.EnsureFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyFileConfig(cmd *cobra.Command, cfg config.FileConfig) {
	v := cfg.View
	applyStringConfig(cmd, "palette", &viewPalette, v.Palette)
	applyBoolConfig(cmd, "reverse-palette", &viewReversePalette, v.ReversePalette)
	applyBoolConfig(cmd, "keep-bots", &viewKeepBots, v.KeepBots)
	applyBoolConfig(cmd, "keep-ats", &viewKeepAts, v.KeepAts)
	applyIntConfig(cmd, "n-terms", &viewNTerms, v.NTerms)
	applyFloatConfig(cmd, "scale-factor", &viewScaleFactor, v.ScaleFactor)
	applyBoolConfig(cmd, "trend-scale", &viewTrendScale, v.TrendScale)
	applyBoolConfig(cmd, "by-count", &viewByCount, v.ByCount)
	applyBoolConfig(cmd, "to-percent", &viewToPercent, v.ToPercent)
	applyStringConfig(cmd, "streams", &viewStreams, v.Streams)
	applyBoolConfig(cmd, "weighted-trend", &viewWeightedTrend, v.WeightedTrend)
	applyStringConfig(cmd, "exclude", &viewExclude, v.Exclude)

	s := cfg.Source
	applyStringConfig(cmd, "base-url", &sourceBaseURL, s.BaseURL)
	applyStringConfig(cmd, "cache-dir", &sourceCacheDir, s.CacheDir)
	applyStringConfig(cmd, "db", &sourceDBPath, s.DBPath)
}

func viewOptions() model.ViewOptions {
	return model.ViewOptions{
		Streams:        strings.TrimSpace(viewStreams),
		Palette:        strings.TrimSpace(viewPalette),
		Users:          viewUsers,
		Terms:          viewTerms,
		ReversePalette: viewReversePalette,
		KeepBots:       viewKeepBots,
		KeepAts:        viewKeepAts,
		NTerms:         viewNTerms,
		ScaleFactor:    viewScaleFactor,
		TrendScale:     viewTrendScale,
		ByCount:        viewByCount,
		ToPercent:      viewToPercent,
		WeightedTrend:  viewWeightedTrend,
		Exclude:        viewExclude,
	}
}

func validateOptions(opts model.ViewOptions, loc *time.Location) error {
	if opts.NTerms <= 0 {
		return fmt.Errorf("--n-terms must be > 0")
	}
	if opts.ScaleFactor < 0 {
		return fmt.Errorf("--scale-factor must be >= 0")
	}
	if _, err := palette.Get(opts.Palette); err != nil {
		return fmt.Errorf("--palette: %w", err)
	}
	if _, err := aggregate.ParseSelector(opts.Streams, loc); err != nil {
		return fmt.Errorf("--streams: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
