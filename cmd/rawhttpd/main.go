// Command rawhttpd serves the built-in pages and API on every port in RAWHTTP_PORTS until interrupted.
package main

import "github.com/advdv/rawhttp/rhapp"

func main() {
	rhapp.NewApp[rhapp.BaseEnvironment]().Run()
}
