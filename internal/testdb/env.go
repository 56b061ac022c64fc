package testdb

import "os"

// Environment variables checked for a test database URL, in order.
const (
	EnvTestDatabaseURL = "SCRY_TEST_DATABASE_URL"
	EnvDatabaseURL     = "SCRY_DATABASE_URL"
)

// GetTestDatabaseURL returns the first non-empty database URL from the
// environment, or "" when none is set.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if url := os.Getenv(name); url != "" {
			return url
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
