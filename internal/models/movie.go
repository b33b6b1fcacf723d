package models

// MovieSummary is the card shape used by search, popular and similar lists.
type MovieSummary struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"posterPath"`
	BackdropPath string  `json:"backdropPath"`
	ReleaseDate  string  `json:"releaseDate"`
	Rating       float64 `json:"rating"`
	VoteCount    int     `json:"voteCount"`
	GenreIDs     []int   `json:"genreIds,omitempty"`
}

type MoviePage struct {
	Movies       []MovieSummary `json:"movies"`
	TotalPages   int            `json:"totalPages"`
	TotalResults int            `json:"totalResults"`
	Page         int            `json:"page"`
}

type MovieDetails struct {
	MovieSummary
	Runtime int            `json:"runtime"`
	Genres  []Genre        `json:"genres"`
	Budget  int64          `json:"budget"`
	Revenue int64          `json:"revenue"`
	Tagline string         `json:"tagline"`
	Cast    []CastMember   `json:"cast"`
	Crew    []CrewMember   `json:"crew"`
	Videos  []Video        `json:"videos"`
	Similar []MovieSummary `json:"similar"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember and CrewMember keep TMDB field names so the frontend can use them as-is.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}
