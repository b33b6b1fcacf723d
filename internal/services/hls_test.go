package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const masterPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=2800000,RESOLUTION=1280x720,CODECS="avc1.4d401f,mp4a.40.2"
720p/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360,CODECS="avc1.4d401e,mp4a.40.2"
360p/index.m3u8
`

const endedMediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:6.000,
seg0.ts
#EXTINF:6.000,
seg1.ts
#EXTINF:4.500,
seg2.ts
#EXT-X-ENDLIST
`

func TestHLSProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/live/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, masterPlaylist)
	})
	mux.HandleFunc("/vod/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, endedMediaPlaylist)
	})
	mux.HandleFunc("/broken.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not a playlist</html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	prober := NewHLSProber(5 * time.Second)
	ctx := context.Background()

	t.Run("master", func(t *testing.T) {
		info, err := prober.Probe(ctx, srv.URL+"/live/master.m3u8")
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if info.Type != "master" || len(info.Variants) != 2 {
			t.Fatalf("Probe() = %+v", info)
		}
		low := info.Variants[0]
		if low.Bandwidth != 800000 || low.Resolution != "640x360" {
			t.Errorf("variants not sorted by bandwidth: %+v", info.Variants)
		}
		if low.URI != srv.URL+"/live/360p/index.m3u8" {
			t.Errorf("variant URI = %q", low.URI)
		}
	})

	t.Run("media", func(t *testing.T) {
		info, err := prober.Probe(ctx, srv.URL+"/vod/index.m3u8")
		if err != nil {
			t.Fatalf("Probe() error = %v", err)
		}
		if info.Type != "media" || info.SegmentCount != 3 || !info.Ended || info.TargetDuration != 6 {
			t.Errorf("Probe() = %+v", info)
		}
	})

	t.Run("not a playlist", func(t *testing.T) {
		if _, err := prober.Probe(ctx, srv.URL+"/broken.m3u8"); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := prober.Probe(ctx, srv.URL+"/nope.m3u8"); !IsStatus(err, http.StatusNotFound) {
			t.Errorf("Probe() error = %v, want 404", err)
		}
	})

	t.Run("relative url", func(t *testing.T) {
		if _, err := prober.Probe(ctx, "/relative.m3u8"); err == nil {
			t.Error("expected invalid url error")
		}
	})
}
