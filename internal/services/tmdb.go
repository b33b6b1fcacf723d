package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Zerr0-C00L/StreamHub/internal/cache"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

const (
	castLimit    = 10
	crewLimit    = 5
	similarLimit = 6
)

type TMDBClient struct {
	up *upstream
}

type TMDBOptions struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Breaker  BreakerSettings
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewTMDBClient(opts TMDBOptions) *TMDBClient {
	up := newUpstream("tmdb", opts.BaseURL, opts.Timeout, opts.Breaker)
	if opts.Cache != nil {
		up.withCache(opts.Cache, opts.CacheTTL)
	}
	apiKey := opts.APIKey
	up.authorize = func(req *http.Request) {
		q := req.URL.Query()
		q.Set("api_key", apiKey)
		req.URL.RawQuery = q.Encode()
	}
	return &TMDBClient{up: up}
}

type tmdbMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
}

type tmdbPage struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type tmdbDetails struct {
	tmdbMovie
	Runtime int            `json:"runtime"`
	Genres  []models.Genre `json:"genres"`
	Budget  int64          `json:"budget"`
	Revenue int64          `json:"revenue"`
	Tagline string         `json:"tagline"`
	Credits struct {
		Cast []models.CastMember `json:"cast"`
		Crew []models.CrewMember `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []models.Video `json:"results"`
	} `json:"videos"`
	Similar struct {
		Results []tmdbMovie `json:"results"`
	} `json:"similar"`
}

// SearchMovies never includes adult titles.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var result tmdbPage
	if err := c.up.getJSON(ctx, "/search/movie", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return convertPage(&result), nil
}

func (c *TMDBClient) PopularMovies(ctx context.Context, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result tmdbPage
	if err := c.up.getJSON(ctx, "/movie/popular", params, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch popular movies: %w", err)
	}
	return convertPage(&result), nil
}

// MovieDetails includes credits, videos and similar titles in one request.
func (c *TMDBClient) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,similar")

	var d tmdbDetails
	if err := c.up.getJSON(ctx, fmt.Sprintf("/movie/%d", id), params, &d); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	summary := convertMovie(&d.tmdbMovie)
	summary.GenreIDs = nil

	details := &models.MovieDetails{
		MovieSummary: summary,
		Runtime:      d.Runtime,
		Genres:       nonNil(d.Genres),
		Budget:       d.Budget,
		Revenue:      d.Revenue,
		Tagline:      d.Tagline,
		Cast:         nonNil(head(d.Credits.Cast, castLimit)),
		Crew:         nonNil(head(d.Credits.Crew, crewLimit)),
		Videos:       nonNil(d.Videos.Results),
		Similar:      make([]models.MovieSummary, 0, similarLimit),
	}
	for _, m := range head(d.Similar.Results, similarLimit) {
		details.Similar = append(details.Similar, convertMovie(&m))
	}
	return details, nil
}

func (c *TMDBClient) Genres(ctx context.Context) ([]models.Genre, error) {
	var result struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.up.getJSON(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}
	return nonNil(result.Genres), nil
}

func convertPage(p *tmdbPage) *models.MoviePage {
	page := &models.MoviePage{
		Movies:       make([]models.MovieSummary, 0, len(p.Results)),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Page:         p.Page,
	}
	for i := range p.Results {
		page.Movies = append(page.Movies, convertMovie(&p.Results[i]))
	}
	return page
}

func convertMovie(tm *tmdbMovie) models.MovieSummary {
	return models.MovieSummary{
		ID:           tm.ID,
		Title:        tm.Title,
		Overview:     tm.Overview,
		PosterPath:   tm.PosterPath,
		BackdropPath: tm.BackdropPath,
		ReleaseDate:  tm.ReleaseDate,
		Rating:       tm.VoteAverage,
		VoteCount:    tm.VoteCount,
		GenreIDs:     tm.GenreIDs,
	}
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
