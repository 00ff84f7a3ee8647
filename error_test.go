package rawhttp_test

import (
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := rawhttp.NewError(rawhttp.CodeBadRequest, errors.New("foo"))
	require.Equal(t, rawhttp.Code(400), err1.Code())
	require.Equal(t, rawhttp.CodeBadRequest, rawhttp.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())

	require.Equal(t, rawhttp.CodeUnknown, rawhttp.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", rawhttp.NewError(900, errors.New("rab")).Error())
}

func TestErrorCodeThroughWrapping(t *testing.T) {
	err := errors.Wrap(rawhttp.NewError(rawhttp.CodeMethodNotAllowed, errors.New("nope")), "while routing")
	require.Equal(t, rawhttp.CodeMethodNotAllowed, rawhttp.CodeOf(err))
	require.True(t, rawhttp.IsClientError(err))

	require.False(t, rawhttp.IsClientError(rawhttp.NewError(rawhttp.CodeInternalServerError, errors.New("boom"))))
	require.False(t, rawhttp.IsClientError(errors.New("plain")))
}
