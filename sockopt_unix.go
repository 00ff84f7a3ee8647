//go:build unix

package rawhttp

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

func setReuseAddr(fd uintptr) error {
	return errors.Wrap(unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1), "set SO_REUSEADDR")
}

func setDualStack(fd uintptr) error {
	return errors.Wrap(unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0), "clear IPV6_V6ONLY")
}
