package rawhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Version is reported by the status route and the index page.
const Version = "1.0.0"

// AnonymousName is used by the greet route when the body carries no name.
const AnonymousName = "Anonymous"

// ServerInfo is the static description of the running server that the default routes render.
type ServerInfo struct {
	Name    string
	Version string
	Ports   []int
}

// NewDefaultRouter registers the built-in page and API routes. Middleware is applied to all of them.
func NewDefaultRouter(info ServerInfo, mw ...Middleware) *Router {
	if info.Name == "" {
		info.Name = DefaultServerName
	}
	if info.Version == "" {
		info.Version = Version
	}

	m := NewRouter()
	m.Use(mw...)

	c := &content{info: info, router: m}
	m.Handle("", "/", c.index, "index")
	m.Handle("", "/api/time", c.serverTime, "time")
	m.Handle("", "/api/hello", c.hello, "hello")
	m.Handle("", "/api/status", c.status, "status")
	m.Handle(http.MethodPost, "/api/greet", c.greet, "greet")

	return m
}

type content struct {
	info   ServerInfo
	router *Router
}

var indexLinks = []pageLink{
	{"time", "⏱️ Server time"},
	{"hello", "👋 Hello API"},
	{"status", "📊 Server status"},
}

func (c *content) index(_ context.Context, req *Request) (Result, error) {
	links := lo.FilterMap(indexLinks, func(l pageLink, _ int) (pageLink, bool) {
		path, err := c.router.Reverse(l.Href)
		return pageLink{Href: path, Label: l.Label}, err == nil
	})

	return renderPage(http.StatusOK, "index.html", indexPage{
		Server:   c.info.Name,
		Version:  c.info.Version,
		Ports:    c.info.Ports,
		Time:     req.Now.Format(TimeLayout),
		ClientIP: req.Peer,
		Path:     req.Path,
		Method:   req.Method,
		Links:    links,
	})
}

type timeBody struct {
	Time      string  `json:"time"`
	ClientIP  string  `json:"client_ip"`
	Timestamp float64 `json:"timestamp"`
}

func (c *content) serverTime(_ context.Context, req *Request) (Result, error) {
	return JSONResult(http.StatusOK, timeBody{
		Time:      req.Now.Format(TimeLayout),
		ClientIP:  req.Peer,
		Timestamp: unixSeconds(req.Now),
	})
}

type helloBody struct {
	Message    string `json:"message"`
	ClientIP   string `json:"client_ip"`
	ServerTime string `json:"server_time"`
}

func (c *content) hello(_ context.Context, req *Request) (Result, error) {
	return JSONResult(http.StatusOK, helloBody{
		Message:    fmt.Sprintf("Hello from %s! 👋", c.info.Name),
		ClientIP:   req.Peer,
		ServerTime: req.Now.Format(TimeLayout),
	})
}

type statusBody struct {
	Server     string   `json:"server"`
	Status     string   `json:"status"`
	Version    string   `json:"version"`
	Ports      []int    `json:"ports"`
	Routes     []string `json:"routes"`
	ClientIP   string   `json:"client_ip"`
	ServerTime string   `json:"server_time"`
}

func (c *content) status(_ context.Context, req *Request) (Result, error) {
	return JSONResult(http.StatusOK, statusBody{
		Server:     c.info.Name,
		Status:     "running",
		Version:    c.info.Version,
		Ports:      lo.Ternary(c.info.Ports == nil, []int{}, c.info.Ports),
		Routes:     c.router.Names(),
		ClientIP:   req.Peer,
		ServerTime: req.Now.Format(TimeLayout),
	})
}

type greetBody struct {
	Greeting     string          `json:"greeting"`
	ReceivedData json.RawMessage `json:"received_data"`
	Timestamp    string          `json:"timestamp"`
}

// greet answers a JSON body of the form {"name": "..."}. Bodies that are not a JSON object are a client error
// answered with a 400, never a fault.
func (c *content) greet(_ context.Context, req *Request) (Result, error) {
	if !gjson.ValidBytes(req.Body) || !gjson.ParseBytes(req.Body).IsObject() {
		return JSONResult(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	}

	name := AnonymousName
	if v := gjson.GetBytes(req.Body, "name"); v.Exists() && v.Type != gjson.Null && v.String() != "" {
		name = v.String()
	}

	return JSONResult(http.StatusOK, greetBody{
		Greeting:     fmt.Sprintf("Hello, %s!", name),
		ReceivedData: json.RawMessage(req.Body),
		Timestamp:    req.Now.Format(TimeLayout),
	})
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
