package rawhttp

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// TimeLayout is how every page and API response renders wall-clock time.
const TimeLayout = "2006-01-02 15:04:05"

//go:embed pages/*.html
var pageFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "pages/*.html"))

type pageLink struct {
	Href  string
	Label string
}

type indexPage struct {
	Server   string
	Version  string
	Ports    []int
	Time     string
	ClientIP string
	Path     string
	Method   string
	Links    []pageLink
}

type notFoundPage struct {
	Path     template.HTML
	Time     string
	ClientIP string
}

// NotFoundPage renders the HTML error page for a path nobody registered. The page echoes the path, the time and
// the caller's address.
func NotFoundPage(_ context.Context, req *Request) (Result, error) {
	return renderPage(http.StatusNotFound, "not_found.html", notFoundPage{
		Path:     echoPath(req.Path),
		Time:     req.Now.Format(TimeLayout),
		ClientIP: req.Peer,
	})
}

// markupEscaper neutralizes only the characters that could open a tag or close an attribute.
var markupEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", `"`, "&#34;")

// echoPath returns the path for text content so that everything else, query strings included, reads back
// byte for byte.
func echoPath(p string) template.HTML {
	return template.HTML(markupEscaper.Replace(p)) //nolint:gosec
}

func renderPage(status int, name string, data any) (Result, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return Result{}, errors.Wrapf(err, "failed to render page %q", name)
	}

	return Result{Status: status, ContentType: ContentTypeHTML, Body: buf.Bytes()}, nil
}
