package rawhttp_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
)

func Example() {
	rtr := rawhttp.NewRouter()
	rtr.Handle(http.MethodGet, "/items", func(_ context.Context, req *rawhttp.Request) (rawhttp.Result, error) {
		if req.Peer == "" {
			return rawhttp.Result{}, rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("missing peer"))
		}

		return rawhttp.JSONResult(http.StatusOK, map[string]string{"peer": req.Peer})
	}, "list-items")

	path, _ := rtr.Reverse("list-items")
	fmt.Println(path)

	res, _ := rtr.Route(context.Background(), &rawhttp.Request{Method: http.MethodGet, Path: "/items", Peer: "192.0.2.10"})
	fmt.Println(res.Status, string(res.Body))

	res, _ = rtr.Route(context.Background(), &rawhttp.Request{Method: http.MethodGet, Path: "/items"})
	fmt.Println(res.Status, string(res.Body))

	// Output:
	// /items
	// 200 {"peer":"192.0.2.10"}
	// 400 {"detail":"missing peer","error":"Bad Request"}
}

func ExampleFrame() {
	resp, _ := rawhttp.Frame(rawhttp.Result{
		Status:      http.StatusOK,
		ContentType: "text/plain",
		Body:        []byte("hi"),
	}, "example")

	fmt.Printf("%q\n", resp)

	// Output:
	// "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 2\r\nConnection: close\r\nServer: example\r\n\r\nhi"
}
