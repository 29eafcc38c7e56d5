package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/utils"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "", "hash-password", "s3cret")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword("s3cret", strings.TrimSpace(out)))

	out, err = run(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword("from-stdin", strings.TrimSpace(out)))

	_, err = run(t, "\n", "hash-password")
	assert.Error(t, err)
}

func TestSeedRejectsMemoryDriver(t *testing.T) {
	t.Setenv("APP_DB_DRIVER", "memory")
	t.Setenv("APP_JWT_SECRET", "x")
	_, err := run(t, "", "seed", "--config", "")
	assert.ErrorContains(t, err, "persistent")
}
