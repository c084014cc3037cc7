package transport

import (
	"io"
	"net/http"

	"github.com/storacha/go-scitt/core/failure"
)

type HTTPRequest interface {
	Method() string
	// Path is resolved against the channel's base URL.
	Path() string
	Headers() http.Header
	Body() io.Reader
}

type HTTPResponse interface {
	Status() int
	Headers() http.Header
	Body() io.ReadCloser
}

type HTTPError interface {
	failure.Failure
	Status() int
	Headers() http.Header
}
