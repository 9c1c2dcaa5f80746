// Package github implements a resilient client for the GitHub REST API.
//
// # Overview
//
// The centerpiece is [Client.Fetch], a paginated request engine that runs
// one logical query across however many pages the API serves. It follows
// the Link rel="next" chain, retries transient failures (transport errors,
// 202, 403) on a fixed exponential backoff ladder, honors Retry-After
// hints, and waits out quota exhaustion via a process-wide [RateGate].
// Failures never abort a batch: callers always receive the pages collected
// so far together with a coded error describing why the loop stopped.
//
// On top of the engine sit the query helpers ([Client.SearchRepos],
// [Client.MostRecentCommit], [Client.ListDirectory], [Client.FetchFile])
// and [Client.FindFile], a depth-first search over the remote directory
// tree driven by single-page listing calls.
//
// # Retry policy
//
// The backoff ladder is 1, 2, 4, 8, 16, 32, 64 seconds. Once the ladder is
// exhausted the request gives up; there is no wait beyond the last step. A
// Retry-After header overrides the scheduled wait for that attempt only. A
// 422 is never retried: the server has rejected the query itself.
//
// # Rate limits
//
// A 403 carrying X-Ratelimit-Remaining: 0 means the quota window is spent.
// The gate blocks until the absolute X-RateLimit-Reset time. All workers
// share one gate so two goroutines never sleep past independently computed
// deadlines.
package github
