package rawhttp

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// DefaultServerName is sent in the Server header unless configured otherwise.
const DefaultServerName = "rawhttp-dual-port-server"

// Result is what a route produces: everything needed to frame exactly one response.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Header is a single response header. Responses carry them as an ordered slice so the wire order is fixed.
type Header struct {
	Name  string
	Value string
}

// Headers returns the fixed header set for res in wire order. Content-Length is the byte length of the body.
func (res Result) Headers(serverName string) []Header {
	return []Header{
		{"Content-Type", res.ContentType},
		{"Content-Length", strconv.Itoa(len(res.Body))},
		{"Connection", "close"},
		{"Server", serverName},
	}
}

// Frame renders res as a complete HTTP/1.1 response.
func Frame(res Result, serverName string) ([]byte, error) {
	if res.Status < 100 || res.Status > 999 {
		return nil, errors.Newf("cannot frame status code %d", res.Status)
	}

	return frame(res.Status, res.Headers(serverName), res.Body), nil
}

// FaultResponse is written when a request could not be handled. It carries no body and no Server header.
func FaultResponse() []byte {
	return frame(http.StatusInternalServerError, []Header{
		{"Content-Length", "0"},
		{"Connection", "close"},
	}, nil)
}

func frame(status int, hdrs []Header, body []byte) []byte {
	reason := http.StatusText(status)
	if reason == "" {
		reason = "Unknown"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(body))

	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(strconv.Itoa(status))
	buf.WriteByte(' ')
	buf.WriteString(reason)
	buf.WriteString("\r\n")

	for _, h := range hdrs {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.WriteString("\r\n")
	}

	buf.WriteString("\r\n")
	buf.Write(body)

	return buf.Bytes()
}
