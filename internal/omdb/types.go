package omdb

// searchResponse represents the response from the OMDb search API.
// Search is nil when OMDb answers with {"Response":"False","Error":...}.
type searchResponse struct {
	Search       []searchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
	Error        string         `json:"Error"`
}

// searchResult represents a movie row in a search response
type searchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// movieResponse represents the detail response for one movie.
// Numeric fields arrive as strings ("142 min", "8.8", "N/A").
type movieResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}
