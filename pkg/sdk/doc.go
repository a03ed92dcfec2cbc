// Package vibecheck is a Go client for the vibecheck sentiment API.
//
//	client, _ := vibecheck.New("http://localhost:5000",
//	    vibecheck.WithTimeout(15*time.Second),
//	)
//	s, _ := client.Analyze(ctx, "The battery life is great")
//	fmt.Println(s.Vibe, s.Score, s.Confidence)
//
//	sum, err := client.AnalyzeReviews(ctx, "https://www.amazon.co.uk/dp/B0EXAMPLE1")
//	if errors.Is(err, vibecheck.ErrUpstreamBlocked) {
//	    // the review page could not be fetched, try again later
//	}
//
// Server errors are returned as *APIError and match the package sentinels with errors.Is.
package vibecheck
