package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/grafov/m3u8"

	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

// HLSProber fetches a stream's playlist and reports what the player will see.
type HLSProber struct {
	up *upstream
}

func NewHLSProber(timeout time.Duration) *HLSProber {
	return &HLSProber{up: newUpstream("hls", "", timeout, BreakerSettings{})}
}

func (p *HLSProber) Probe(ctx context.Context, playlistURL string) (*models.PlaybackInfo, error) {
	base, err := url.Parse(playlistURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid playlist url %q", playlistURL)
	}

	data, err := p.up.do(ctx, http.MethodGet, playlistURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	return parsePlaylist(base, data)
}

func parsePlaylist(base *url.URL, data []byte) (*models.PlaybackInfo, error) {
	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(data), false)
	if err != nil {
		return nil, fmt.Errorf("failed to decode playlist: %w", err)
	}

	info := &models.PlaybackInfo{URL: base.String()}
	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		info.Type = "master"
		for _, v := range master.Variants {
			if v == nil {
				continue
			}
			info.Variants = append(info.Variants, models.HLSVariant{
				URI:        resolveRef(base, v.URI),
				Bandwidth:  v.Bandwidth,
				Resolution: v.Resolution,
				Codecs:     v.Codecs,
			})
		}
		sort.Slice(info.Variants, func(i, j int) bool {
			return info.Variants[i].Bandwidth < info.Variants[j].Bandwidth
		})
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		info.Type = "media"
		info.SegmentCount = int(media.Count())
		info.TargetDuration = media.TargetDuration
		info.Ended = media.Closed
	default:
		return nil, fmt.Errorf("unknown playlist type")
	}
	return info, nil
}

func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
