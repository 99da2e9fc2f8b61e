// Package twitter implements the StatusFetcher port against the
// Twitter 1.1 REST API.
//
// Only the status-lookup endpoint is used. Requests run in extended
// tweet mode so re-fetched statuses carry full_text, and the client
// honours the per-window rate limit the API reports: when the window
// is spent it sleeps until the reported reset time before the next
// request.
package twitter
