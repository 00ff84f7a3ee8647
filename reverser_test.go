package rawhttp_test

import (
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverser(t *testing.T) {
	rev := rawhttp.NewReverser()

	t.Run("should allow naming paths", func(t *testing.T) {
		s := rev.Named("index", "/")
		assert.Equal(t, "/", s)

		s, err := rev.NamedPath("time", "/api/time")
		require.NoError(t, err)
		assert.Equal(t, "/api/time", s)
	})

	t.Run("should reverse named paths", func(t *testing.T) {
		res, err := rev.Reverse("time")
		require.NoError(t, err)
		assert.Equal(t, "/api/time", res)
	})

	t.Run("should list names sorted", func(t *testing.T) {
		assert.Equal(t, []string{"index", "time"}, rev.Names())
	})

	t.Run("should error if name already exists", func(t *testing.T) {
		_, err := rev.NamedPath("index", "/other")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("should panic for Named error", func(t *testing.T) {
		assert.PanicsWithValue(t, `rawhttp: route with name "index" already exists`, func() {
			rev.Named("index", "/again")
		})
	})

	t.Run("should error if reversing unknown name", func(t *testing.T) {
		_, err := rev.Reverse("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no route named: \"bogus\"")
	})
}
