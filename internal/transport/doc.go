// Package transport retrieves release assets over the network.
//
// A Fetcher is one download mechanism: the native Go HTTP client, or an
// external command such as curl or wget. A Chain holds mechanisms in
// preference order and uses the first one that is available on the host.
// Availability is the only fallback criterion: a mechanism that is present
// but fails is reported as a failure, the next one is not tried.
//
// Basic usage:
//
//	chain, err := transport.FromNames([]string{"http", "curl", "wget"})
//	if err != nil {
//		return err
//	}
//	body, err := chain.Fetch(ctx, url)
//	if err != nil {
//		return err
//	}
//	defer body.Close()
//
// Command mechanisms stream stdout. A non-zero exit of the command surfaces
// as an error from Read at end of stream, so a consumer copying the body
// never mistakes a truncated download for a complete one.
package transport
