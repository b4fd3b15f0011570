// Package findmyfood embeds the findmyfood engine in a Go program without
// running the HTTP server.
//
// The client wires the same services the server uses: menu search with diet
// and allergen screening, collaborative-filtering dish recommendations, and
// the two-section dashboard.
//
//	client, _ := findmyfood.New(ctx,
//	    findmyfood.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	    findmyfood.WithDataset("ratings.yaml"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, findmyfood.SearchQuery{
//	    Restaurant:   "Dishoom",
//	    Location:     "London",
//	    Requirements: []string{"vegetarian"},
//	    Allergens:    []string{"peanut"},
//	})
//	for _, it := range res.PerfectMatches {
//	    fmt.Println(it.Item.Name, it.Score)
//	}
//
//	dishes, _ := client.Recommend(ctx, 1, 4)
//
// Without WithValkey or WithRedis generated content is cached in process memory.
// Without a content source Search fails with ErrContentUnavailable while the
// recommendation calls keep working.
package findmyfood
