package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Sport is a category from the sports-schedule API. The API returns either
// a bare string or an object, both decode here.
type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Sport) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.ID, s.Name = name, name
		return nil
	}

	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("sport must be a string or object: %w", err)
	}
	s.ID, s.Name = obj.ID, obj.Name
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.ID == "" {
		s.ID = s.Name
	}
	return nil
}

type Match struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Category string        `json:"category"`
	Date     int64         `json:"date,omitempty"`
	Time     string        `json:"time,omitempty"`
	Poster   string        `json:"poster,omitempty"`
	Popular  bool          `json:"popular"`
	Teams    *Teams        `json:"teams,omitempty"`
	Sources  []MatchSource `json:"sources"`

	// WatchID is "<source>-<id>" of the first source, or the match id when there are none.
	WatchID     string `json:"watchId"`
	SourceCount int    `json:"sourceCount"`
}

type MatchSource struct {
	Source string `json:"source"`
	ID     string `json:"id"`
}

type Teams struct {
	Home *Team `json:"home,omitempty"`
	Away *Team `json:"away,omitempty"`
}

type Team struct {
	Name  string `json:"name"`
	Badge string `json:"badge,omitempty"`
}

type MatchStream struct {
	ID        string `json:"id"`
	StreamNo  int    `json:"streamNo"`
	Language  string `json:"language"`
	HD        bool   `json:"hd"`
	EmbedURL  string `json:"embedUrl,omitempty"`
	StreamURL string `json:"streamUrl,omitempty"`
	Source    string `json:"source"`
}

// PlayerURL prefers the embeddable page over the raw stream.
func (m MatchStream) PlayerURL() string {
	if m.EmbedURL != "" {
		return m.EmbedURL
	}
	return m.StreamURL
}

// MatchStreams is the watch payload: every stream for a source plus the one to play.
type MatchStreams struct {
	Streams   []MatchStream `json:"streams"`
	Selected  *MatchStream  `json:"selected"`
	PlayerURL string        `json:"playerUrl,omitempty"`
}

// PlaybackInfo describes an HLS playlist as seen by the prober.
type PlaybackInfo struct {
	URL            string       `json:"url"`
	Type           string       `json:"type"` // master or media
	Variants       []HLSVariant `json:"variants,omitempty"`
	SegmentCount   int          `json:"segmentCount,omitempty"`
	TargetDuration float64      `json:"targetDuration,omitempty"`
	Ended          bool         `json:"ended"`
}

type HLSVariant struct {
	URI        string `json:"uri"`
	Bandwidth  uint32 `json:"bandwidth"`
	Resolution string `json:"resolution,omitempty"`
	Codecs     string `json:"codecs,omitempty"`
}
