package movie

// Statistics aggregates a watched list for display.
type Statistics struct {
	Count         int
	AvgIMDbRating float64
	AvgUserRating float64
	AvgRuntime    float64
}

// Summarize computes the running averages over entries.
func Summarize(entries []WatchedEntry) Statistics {
	imdb := make([]float64, 0, len(entries))
	user := make([]float64, 0, len(entries))
	runtime := make([]float64, 0, len(entries))
	for _, e := range entries {
		imdb = append(imdb, e.IMDbRating)
		user = append(user, float64(e.UserRating))
		runtime = append(runtime, float64(e.RuntimeMinutes))
	}

	return Statistics{
		Count:         len(entries),
		AvgIMDbRating: Average(imdb),
		AvgUserRating: Average(user),
		AvgRuntime:    Average(runtime),
	}
}

// Average returns the arithmetic mean of values, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
