package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookvault/tests/testutils"
)

func signup(t *testing.T, app *testApp, username string) {
	resp := app.server.PostForm("/signup", url.Values{
		"username": {username}, "email": {username + "@x.com"}, "password": {"pw"},
	})
	testutils.AssertRedirect(t, resp, "/books")
}

func TestCreateAndListBooks(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	signup(t, app, "alice")

	resp := app.server.PostForm("/books", url.Values{
		"title": {"Dune"}, "author": {"Herbert"}, "published_year": {"1965"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	resp = app.server.GET("/books")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := testutils.ReadBody(t, resp)
	assert.Contains(t, body, "Dune")
	assert.Contains(t, body, "Herbert")
	assert.Contains(t, body, "1965")
}

func TestCreateBookWithoutYear(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	signup(t, app, "alice")

	resp := app.server.PostForm("/books", url.Values{
		"title": {"The Trial"}, "author": {"Kafka"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	resp = app.server.GET("/books")
	body := testutils.ReadBody(t, resp)
	assert.Contains(t, body, "The Trial")
}

func TestCreateBookValidation(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	signup(t, app, "alice")

	resp := app.server.PostForm("/books", url.Values{"author": {"Herbert"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutils.ReadBody(t, resp), "Title and author are required.")

	resp = app.server.PostForm("/books", url.Values{
		"title": {"Dune"}, "author": {"Herbert"}, "published_year": {"not-a-number"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutils.ReadBody(t, resp), "Published year must be a number.")
}

func TestNewBookFormRequiresSession(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	resp := app.server.GET("/books/new")
	testutils.AssertRedirect(t, resp, "/login")

	signup(t, app, "alice")

	resp = app.server.GET("/books/new")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, testutils.ReadBody(t, resp), "Add a book")
}
