package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("MEDCTL_PASSWORD", "")
	cmd, opts, err := parse([]string{"whoami", "-e", "ana@example.com", "-p", "secret", "--api-key", "k", "--timeout", "5s"})

	require.NoError(t, err)
	assert.Equal(t, "whoami", cmd)
	assert.Equal(t, "ana@example.com", opts.email)
	assert.Equal(t, "secret", opts.password)
	assert.Equal(t, 5*time.Second, opts.timeout)
	assert.Equal(t, "http://localhost:8080", opts.api)
}

func TestParsePasswordFromEnv(t *testing.T) {
	t.Setenv("MEDCTL_PASSWORD", "from-env")
	t.Setenv("FIREBASE_API_KEY", "k")

	_, opts, err := parse([]string{"login", "--email", "ana@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "from-env", opts.password)
}

func TestParseErrors(t *testing.T) {
	t.Setenv("MEDCTL_PASSWORD", "")
	t.Setenv("FIREBASE_API_KEY", "")

	_, _, err := parse([]string{"login", "--api-key", "k"})
	assert.Error(t, err)

	_, _, err = parse([]string{"-e", "a@b.c", "-p", "x", "--api-key", "k"})
	assert.Error(t, err)

	_, _, err = parse([]string{"login", "-e", "a@b.c", "-p", "x"})
	assert.Error(t, err)
}
