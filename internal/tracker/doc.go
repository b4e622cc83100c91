// Package tracker wraps the remote issue tracker behind the [Client]
// contract the sync engine consumes.
//
// The production implementation, [GitHubClient], is built on
// go-github with oauth2 token authentication. All errors leaving the
// package belong to a small taxonomy: [APIError] carries the HTTP
// status, a machine-readable code, and a retryable flag;
// [RateLimitError] additionally carries the quota reset time so
// callers can schedule a re-invocation. Use [Retryable] and
// [ResetTime] instead of type-asserting at call sites.
//
// The issues endpoint on GitHub returns pull requests alongside
// issues; [GitHubClient.ListIssues] excludes them unless explicitly
// asked not to, since a pull request has no counterpart on a board.
package tracker
