// Package concsearch embeds the concurrent segment search planner in a Go
// program, with index settings kept in memory, Valkey or Redis.
//
// # Planning a request
//
//	client, _ := concsearch.New(ctx, concsearch.WithValkey("localhost:6379", ""),
//	    concsearch.WithBuiltinDeciders(),
//	)
//	plan, _ := client.Plan(ctx, "products", concsearch.PlanRequest{
//	    Query: json.RawMessage(`{"knn": {"embedding": {"vector": [0.1, 0.2], "k": 10}}}`),
//	    Aggs:  json.RawMessage(`{"by_brand": {"terms": {"field": "brand"}}}`),
//	})
//	if plan.Concurrent { ... }
//
// # Custom deciders
//
// A Decider registered with WithDecider is asked at every clause of every
// query, after the built-in request-level check. Any No vetoes concurrency.
//
//	type noRange struct{}
//
//	func (noRange) Decide(_ *concsearch.SearchContext, _ concsearch.Index,
//	    _ concsearch.Cluster, c concsearch.Clause) concsearch.Decision {
//	    if c != nil && c.Kind() == concsearch.ClauseRange {
//	        return concsearch.No("range scans are cheaper sequentially")
//	    }
//	    return concsearch.Abstain("")
//	}
//
//	func (noRange) OptOut(concsearch.Index) bool { return false }
package concsearch
