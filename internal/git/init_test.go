package git

import (
	"os"
	"testing"
)

// TestMain pins the identity and config git uses so repositories created by
// tests never depend on the developer's global settings.
func TestMain(m *testing.M) {
	env := map[string]string{
		"GIT_AUTHOR_NAME":     "gitai test",
		"GIT_AUTHOR_EMAIL":    "test@example.com",
		"GIT_COMMITTER_NAME":  "gitai test",
		"GIT_COMMITTER_EMAIL": "test@example.com",
		"GIT_CONFIG_NOSYSTEM": "1",
		"GIT_CONFIG_GLOBAL":   os.DevNull,
	}
	for key, value := range env {
		os.Setenv(key, value)
	}

	code := m.Run()

	for key := range env {
		os.Unsetenv(key)
	}
	os.Exit(code)
}
