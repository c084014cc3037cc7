package transport

import "context"

// Channel sends requests to a remote service. A response is only returned
// for a successful status; any other status is reported as an [HTTPError].
type Channel interface {
	Request(ctx context.Context, request HTTPRequest) (HTTPResponse, error)
}
