//go:build !unix

package rawhttp

import "github.com/cockroachdb/errors"

// On these platforms the runtime already enables address reuse where it is safe.
func setReuseAddr(uintptr) error { return nil }

func setDualStack(uintptr) error {
	return errors.New("clearing IPV6_V6ONLY is not supported on this platform")
}
