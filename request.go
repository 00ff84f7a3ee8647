package rawhttp

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// MaxRequestBytes is the size of the single read performed per connection. Whatever the peer managed to send in
// that one read is all the request there is: a request line split across two TCP segments is not reassembled.
const MaxRequestBytes = 4096

// Request is the parsed form of what the peer sent. Only the request line is interpreted; the body is kept raw
// and only for POST requests.
type Request struct {
	Method  string
	Path    string
	RawLine string
	Body    []byte

	// Peer is the caller's IP address, or "unknown" when it could not be determined.
	Peer string
	// Now is the moment the request was parsed. Routes render time from it instead of the wall clock.
	Now time.Time
}

// ReadRequest performs exactly one read of at most [MaxRequestBytes] from r. A read that returns zero bytes, or
// only io.EOF, yields [ErrMalformedRequest].
func ReadRequest(r io.Reader) ([]byte, error) {
	buf := make([]byte, MaxRequestBytes)

	n, err := r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		return nil, errors.Wrap(ErrMalformedRequest, "peer sent no data")
	}

	return nil, errors.Wrap(err, "failed to read request")
}

// ParseRequest extracts the method and path from the first line of raw. Any further tokens on that line (the
// protocol version) are ignored, as is every header line.
func ParseRequest(raw []byte) (*Request, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrMalformedRequest, "empty request")
	}

	first, _, _ := bytes.Cut(raw, []byte("\n"))
	line := strings.TrimSpace(string(first))

	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, errors.Wrapf(ErrMalformedRequest, "request line %q has %d token(s)", line, len(parts))
	}

	req := &Request{
		Method:  parts[0],
		Path:    parts[1],
		RawLine: line,
	}

	if req.Method == http.MethodPost {
		req.Body = requestBody(raw)
	}

	return req, nil
}

// requestBody returns everything after the first blank line. It accepts both CRLF and bare LF line endings.
func requestBody(raw []byte) []byte {
	if _, body, ok := bytes.Cut(raw, []byte("\r\n\r\n")); ok {
		return body
	}
	if _, body, ok := bytes.Cut(raw, []byte("\n\n")); ok {
		return body
	}
	return nil
}
