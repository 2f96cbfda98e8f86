// Package gateway provides a retrying HTTP client for content-addressed
// image retrieval through an IPFS gateway.
//
// This package handles:
//   - Connection pooling for high parallelism
//   - Status classification (success, permanent absence, transient failure)
//   - Retry with exponential backoff and jitter
//
// # Usage
//
//	client := gateway.NewClient(gateway.Options{
//	    BaseURL:    "https://premium.w3ipfs.storage",
//	    Timeout:    15 * time.Second,
//	    MaxRetries: 10,
//	})
//
//	data, err := client.Fetch(ctx, cid)
//	switch {
//	case err == nil:                         // image bytes
//	case errors.Is(err, gateway.ErrAbsent):  // gone for good, skip
//	case errors.Is(err, gateway.ErrExhausted): // gave up after retries, skip
//	}
//
// Only 429 and 5xx responses (and network-level errors) are retried.
// 403/404 and any unrecognized status are permanent negative answers;
// treating unknown statuses as retryable would just burn the budget
// against a gateway that has already made up its mind.
package gateway
