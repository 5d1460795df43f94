package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chhengkhim/confessboard/pkg/client"
)

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"auth", "login"},
		{"auth", "status"},
		{"posts", "create"},
		{"posts", "search"},
		{"comments", "add"},
		{"likes", "toggle"},
		{"notifications", "read-all"},
		{"messages", "reply"},
		{"tags", "rename"},
		{"faqs", "update"},
		{"admin", "users", "ban"},
		{"admin", "confessions", "approve"},
		{"admin", "dashboard"},
		{"completion"},
		{"version"},
	}
	for _, p := range paths {
		found, _, err := rootCmd.Find(p)
		require.NoError(t, err, strings.Join(p, " "))
		assert.Equal(t, p[len(p)-1], found.Name())
	}
}

func TestCommandRouteMatchesLoginRoute(t *testing.T) {
	found, _, err := rootCmd.Find([]string{"auth", "login"})
	require.NoError(t, err)

	route := commandRoute(found)
	assert.Equal(t, client.LoginRoute, route)
	assert.True(t, client.IsAuthExempt(route))

	found, _, err = rootCmd.Find([]string{"posts", "list"})
	require.NoError(t, err)
	assert.False(t, client.IsAuthExempt(commandRoute(found)))
}

func TestListQueryFlags(t *testing.T) {
	c := &cobra.Command{Use: "list"}
	addListFlags(c)
	require.NoError(t, c.ParseFlags([]string{"--page", "3", "--per-page", "25", "--search", "exam"}))

	q := listQuery(c)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PerPage)
	assert.Equal(t, "exam", q.Search)
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	assert.True(t, strings.HasPrefix(buf.String(), "Confessboard CLI v"+Version))
}

func TestIDArgRejectsGarbage(t *testing.T) {
	_, err := idArg([]string{"abc"}, 0, "post id")
	assert.Error(t, err)

	id, err := idArg([]string{"12"}, 0, "post id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 130, exitCode(context.Canceled))
	assert.Equal(t, 130, exitCode(fmt.Errorf("watching: %w", context.Canceled)))
}
