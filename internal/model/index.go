package model

import "time"

// ChannelSummary describes a channel archive that has been loaded before.
type ChannelSummary struct {
	Name     string
	Source   string
	LoadedAt time.Time
	Streams  int
	Messages int
}

// StreamSummary holds the totals of one stream in a loaded archive.
type StreamSummary struct {
	Channel   string
	VodID     int64
	Title     string
	CreatedAt string
	Duration  float64
	Users     int
	Messages  int
	Words     int
}

// Summarize totals a record's users, messages and term occurrences.
func Summarize(channel string, rec *ChatRecord) StreamSummary {
	s := StreamSummary{
		Channel:   channel,
		VodID:     rec.Stream.VodID,
		Title:     rec.Stream.Title,
		CreatedAt: rec.Stream.CreatedAt,
		Duration:  rec.Stream.Duration,
	}
	for _, chat := range rec.Chats {
		if chat == nil {
			continue
		}
		s.Users++
		s.Messages += chat.NMessages
		for _, n := range chat.Terms {
			s.Words += n
		}
	}
	return s
}
