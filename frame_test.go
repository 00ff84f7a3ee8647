package rawhttp_test

import (
	"net/http"
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	t.Run("fixed header order", func(t *testing.T) {
		resp, err := rawhttp.Frame(rawhttp.Result{
			Status:      http.StatusOK,
			ContentType: rawhttp.ContentTypeJSON,
			Body:        []byte(`{}`),
		}, "srv")
		require.NoError(t, err)

		assert.Equal(t, "HTTP/1.1 200 OK\r\n"+
			"Content-Type: application/json; charset=utf-8\r\n"+
			"Content-Length: 2\r\n"+
			"Connection: close\r\n"+
			"Server: srv\r\n"+
			"\r\n{}", string(resp))
	})

	t.Run("content length counts bytes", func(t *testing.T) {
		body := "héllo 👋"
		res := rawhttp.Result{Status: http.StatusOK, ContentType: rawhttp.ContentTypeHTML, Body: []byte(body)}
		hdrs := res.Headers(rawhttp.DefaultServerName)

		require.Len(t, hdrs, 4)
		assert.Equal(t, rawhttp.Header{Name: "Content-Length", Value: "11"}, hdrs[1])
		assert.Equal(t, rawhttp.Header{Name: "Server", Value: rawhttp.DefaultServerName}, hdrs[3])
	})

	t.Run("unknown reason", func(t *testing.T) {
		resp, err := rawhttp.Frame(rawhttp.Result{Status: 599}, "srv")
		require.NoError(t, err)
		assert.Contains(t, string(resp), "HTTP/1.1 599 Unknown\r\n")
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := rawhttp.Frame(rawhttp.Result{Status: 0}, "srv")
		require.Error(t, err)
	})
}

func TestFaultResponse(t *testing.T) {
	assert.Equal(t,
		"HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\nConnection: close\r\n\r\n",
		string(rawhttp.FaultResponse()))
}
