package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// envWithoutDatabaseURL strips DATABASE_URL so the command cannot pick it
// up from the test environment.
func envWithoutDatabaseURL() []string {
	var env []string
	for _, entry := range os.Environ() {
		if strings.HasPrefix(entry, "DATABASE_URL=") {
			continue
		}
		env = append(env, entry)
	}
	return env
}

func TestSessionsCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "sessions", "--user-id", uuid.NewString())
	cmd.Env = envWithoutDatabaseURL()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL environment variable or --db-url flag is required")
}

func TestSessionsCommand_InvalidDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "sessions", "--user-id", uuid.NewString(), "--db-url", "://bad")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to connect to database")
}
