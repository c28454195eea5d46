//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/mirojov/clubhub/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *Suite

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite = newSuite(ctx)
	code := m.Run()
	suite.cleanup()
	os.Exit(code)
}

func Test_Server_ModerationFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.New(serverEndpoint, nil)

	// version endpoint is open
	resp, err := http.Get(serverEndpoint + "/api/version")
	require.NoError(t, err)
	versionInfo, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "test-version-info", string(versionInfo))

	// admin endpoints are closed without a session
	_, err = c.ListUsers(ctx, client.ListUsersParams{})
	require.Error(t, err)

	// public signup works without a session
	created, err := c.Signup(ctx, client.SignupParams{
		Name:         "Mira Markovic",
		MobileNumber: "+38164123456",
		Email:        "mira@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "pending", created.Status)

	// the admin logs in and moderates
	loggedInAs, err := c.Login(ctx, adminUsername, adminPassword)
	require.NoError(t, err)
	assert.Equal(t, adminUsername, loggedInAs)

	pending, err := c.ListUsers(ctx, client.ListUsersParams{Status: "pending"})
	require.NoError(t, err)
	require.Equal(t, 1, pending.Total)
	assert.Equal(t, created.ID, pending.Items[0].ID)

	approved, err := c.UpdateUserStatus(ctx, created.ID, "approved", "looks good")
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.Len(t, approved.StatusHistory, 1)
	assert.Equal(t, "pending", approved.StatusHistory[0].From)
	assert.Equal(t, "approved", approved.StatusHistory[0].To)
	assert.Equal(t, "looks good", approved.StatusHistory[0].Note)

	// the moderation action landed in the audit trail
	auditPage, err := c.ListAuditEntries(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, auditPage.Total)
	assert.Equal(t, adminUsername, auditPage.Items[0].Actor)
	assert.Equal(t, created.ID, auditPage.Items[0].UserID)
	assert.Equal(t, "pending", auditPage.Items[0].FromStatus)
	assert.Equal(t, "approved", auditPage.Items[0].ToStatus)

	// password reset roundtrip
	resetToken, err := c.IssueResetToken(ctx, created.ID)
	require.NoError(t, err)
	require.NotEmpty(t, resetToken.Token)
	require.NoError(t, c.ResetPassword(ctx, resetToken.Token, "brand-new-pass"))

	// a consumed token cannot be used again
	err = c.ResetPassword(ctx, resetToken.Token, "another-pass")
	require.Error(t, err)

	require.NoError(t, c.Logout(ctx))
}

func Test_Server_BlogFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.New(serverEndpoint, nil)
	_, err := c.Login(ctx, adminUsername, adminPassword)
	require.NoError(t, err)

	draft, err := c.CreatePost(ctx, client.CreatePostParams{
		Slug:    "season-opening",
		Title:   "Season Opening",
		Tags:    []string{"news"},
		Content: "The new season starts next week.",
	})
	require.NoError(t, err)
	assert.False(t, draft.Published)

	// drafts are invisible on the public side
	_, err = c.GetPost(ctx, draft.Slug)
	require.Error(t, err)

	publicList, err := c.ListPosts(ctx, client.ListPostsParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, publicList.Total)

	// but the admin listing sees them
	adminList, err := c.ListPostsAdmin(ctx, client.ListPostsAdminParams{Status: "draft"})
	require.NoError(t, err)
	require.Equal(t, 1, adminList.Total)

	// publishing makes the post public
	published := true
	updated, err := c.UpdatePost(ctx, draft.ID, client.UpdatePostParams{Published: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)

	fetched, err := c.GetPost(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Season Opening", fetched.Post.Title)

	tags, err := c.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, client.TagCount{Tag: "news", Count: 1}, tags[0])

	// duplicate slugs are rejected
	_, err = c.CreatePost(ctx, client.CreatePostParams{
		Slug:    "season-opening",
		Title:   "Another",
		Content: "x",
	})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}
