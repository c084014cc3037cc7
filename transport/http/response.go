package http

import (
	"io"
	"net/http"

	"github.com/storacha/go-scitt/transport"
)

type Request struct {
	method string
	path   string
	hdrs   http.Header
	body   io.Reader
}

func (req *Request) Method() string {
	return req.method
}

func (req *Request) Path() string {
	return req.path
}

func (req *Request) Headers() http.Header {
	return req.hdrs
}

func (req *Request) Body() io.Reader {
	return req.body
}

var _ transport.HTTPRequest = (*Request)(nil)

type Response struct {
	status int
	hdrs   http.Header
	body   io.ReadCloser
}

func (res *Response) Status() int {
	return res.status
}

func (res *Response) Headers() http.Header {
	return res.hdrs
}

func (res *Response) Body() io.ReadCloser {
	return res.body
}

var _ transport.HTTPResponse = (*Response)(nil)

func NewResponse(status int, body io.ReadCloser, headers http.Header) *Response {
	return &Response{status: status, hdrs: headers, body: body}
}

// NewRequest creates a [transport.HTTPRequest] for a path relative to the
// channel's base URL. A nil body sends no content.
func NewRequest(method string, path string, body io.Reader, headers http.Header) *Request {
	if headers == nil {
		headers = http.Header{}
	}
	if body == nil {
		body = http.NoBody
	}
	return &Request{method, path, headers, body}
}
