package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Zerr0-C00L/StreamHub/internal/database"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
	"github.com/Zerr0-C00L/StreamHub/internal/services"
)

var errBoom = errors.New("boom")

type fakeStreams struct {
	mu      sync.Mutex
	seq     int
	streams map[string]*models.Stream
	err     error
}

func newFakeStreams() *fakeStreams {
	return &fakeStreams{streams: make(map[string]*models.Stream)}
}

func (f *fakeStreams) List(_ context.Context, status *models.StreamStatus) ([]*models.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Stream, 0, len(f.streams))
	for _, s := range f.streams {
		if status == nil || s.Status == *status {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStreams) Get(_ context.Context, id string) (*models.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.streams[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeStreams) Create(_ context.Context, s *models.Stream) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.seq++
	s.ID = fmt.Sprintf("stream-%d", f.seq)
	s.CreatedAt = time.Date(2024, 1, 1, 0, f.seq, 0, 0, time.UTC)
	c := *s
	f.streams[s.ID] = &c
	return nil
}

func (f *fakeStreams) UpdateStatus(_ context.Context, id string, status models.StreamStatus) (*models.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.streams[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	s.Status = status
	c := *s
	return &c, nil
}

func (f *fakeStreams) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.streams[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.streams, id)
	return nil
}

func (f *fakeStreams) AdjustViewers(_ context.Context, id string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.streams[id]
	if !ok {
		return 0, database.ErrNotFound
	}
	s.Viewers += delta
	if s.Viewers < 0 {
		s.Viewers = 0
	}
	return s.Viewers, nil
}

func (f *fakeStreams) Stats(_ context.Context) (*models.StreamStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.StreamStats{ByStatus: map[models.StreamStatus]int{}}
	for _, s := range f.streams {
		stats.Total++
		stats.ByStatus[s.Status]++
		stats.TotalViewers += s.Viewers
	}
	return stats, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUsers) Create(_ context.Context, name, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, database.ErrDuplicate
		}
	}
	role := models.RoleUser
	if len(f.users) == 0 {
		role = models.RoleAdmin
	}
	u := &models.User{ID: len(f.users) + 1, Name: name, Email: email, Password: hash, Role: role, CreatedAt: time.Now()}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUsers) List(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.User(nil), f.users...), nil
}

type fakeMovies struct {
	err       error
	lastQuery string
	lastPage  int
}

func (f *fakeMovies) SearchMovies(_ context.Context, query string, page int) (*models.MoviePage, error) {
	f.lastQuery, f.lastPage = query, page
	if f.err != nil {
		return nil, f.err
	}
	return &models.MoviePage{
		Movies: []models.MovieSummary{{ID: 27205, Title: "Inception"}},
		Page:   page, TotalPages: 1, TotalResults: 1,
	}, nil
}

func (f *fakeMovies) PopularMovies(_ context.Context, page int) (*models.MoviePage, error) {
	f.lastPage = page
	if f.err != nil {
		return nil, f.err
	}
	return &models.MoviePage{Movies: []models.MovieSummary{}, Page: page}, nil
}

func (f *fakeMovies) MovieDetails(_ context.Context, id int) (*models.MovieDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.MovieDetails{MovieSummary: models.MovieSummary{ID: id, Title: "Inception"}}, nil
}

func (f *fakeMovies) Genres(_ context.Context) ([]models.Genre, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Genre{{ID: 28, Name: "Action"}}, nil
}

type fakePlatform struct {
	mu        sync.Mutex
	seq       int
	createErr error
	deleteErr error
	deleted   []string
}

func (f *fakePlatform) CreateStream(_ context.Context, title, _ string) (*services.PlatformStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	id := fmt.Sprintf("sk_%d", f.seq)
	return &services.PlatformStream{
		ID:        id,
		HLSURL:    "https://cdn.example.com/" + id + "/index.m3u8",
		Thumbnail: "https://cdn.example.com/" + id + ".jpg",
	}, nil
}

func (f *fakePlatform) DeleteStream(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSports struct {
	err error
}

func (f *fakeSports) Sports(_ context.Context) ([]models.Sport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Sport{{ID: "football", Name: "Football"}}, nil
}

func (f *fakeSports) Matches(_ context.Context, sport string) ([]models.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Match{{
		ID:          "m1",
		Title:       "A vs B",
		Category:    sport,
		Sources:     []models.MatchSource{{Source: "alpha", ID: "a-1"}},
		WatchID:     "alpha-a-1",
		SourceCount: 1,
	}}, nil
}

func (f *fakeSports) MatchStreams(_ context.Context, source, id string) (*models.MatchStreams, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := models.MatchStream{ID: id, StreamNo: 1, Source: source, EmbedURL: "https://embed.example.com/" + id}
	return &models.MatchStreams{Streams: []models.MatchStream{s}, Selected: &s, PlayerURL: s.PlayerURL()}, nil
}

type fakeProber struct {
	err     error
	lastURL string
}

func (f *fakeProber) Probe(_ context.Context, url string) (*models.PlaybackInfo, error) {
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return &models.PlaybackInfo{URL: url, Type: "media", SegmentCount: 3, TargetDuration: 6}, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error { return f.err }
