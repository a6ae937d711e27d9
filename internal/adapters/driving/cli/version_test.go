package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	setupTestServices(t)
	wire = func(context.Context) error { return errors.New("must not wire") }

	out, _, err := execute(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "ragdrive version dev")
}

func TestRootCmd_WireError(t *testing.T) {
	setupTestServices(t)
	wire = func(context.Context) error { return errors.New("bad config") }

	_, _, err := execute(t, "", "docs", "list")

	assert.EqualError(t, err, "bad config")
}
