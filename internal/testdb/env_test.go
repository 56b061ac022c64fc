package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURL(t *testing.T) {
	t.Run("none set", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "")
		t.Setenv(EnvDatabaseURL, "")

		assert.Empty(t, GetTestDatabaseURL())
		assert.True(t, ShouldSkipDatabaseTest())
	})

	t.Run("falls back to the application URL", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "")
		t.Setenv(EnvDatabaseURL, "postgres://app@localhost/scry")

		assert.Equal(t, "postgres://app@localhost/scry", GetTestDatabaseURL())
		assert.False(t, ShouldSkipDatabaseTest())
	})

	t.Run("test URL wins", func(t *testing.T) {
		t.Setenv(EnvTestDatabaseURL, "postgres://test@localhost/scry_test")
		t.Setenv(EnvDatabaseURL, "postgres://app@localhost/scry")

		assert.Equal(t, "postgres://test@localhost/scry_test", GetTestDatabaseURL())
	})
}
