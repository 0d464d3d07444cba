// Package skillmatch provides an embedded Go client for the skillmatch
// assessment recommendation engine backed by Redis.
//
// The client wires the catalog store, the ranking engine, and the search
// orchestrator in-process, without running the HTTP API:
//
//	client, _ := skillmatch.New(ctx, skillmatch.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Catalog().Upsert(ctx, skillmatch.Assessment{
//	    ID:    "java-backend",
//	    Title: "Java Backend Test",
//	    URL:   "https://catalog.example.com/java-backend",
//	})
//
//	results, _ := client.Search("java developers").MaxDuration(45).Do(ctx)
//
// Without an embedder configured, searches run on keyword matching alone;
// semantic ranking activates when WithEmbedder or WithOpenAI is set.
package skillmatch
