package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookvault/tests/testutils"
)

func TestSignupLoginLogoutFlow(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	// Signing up establishes a session and lands on the book list.
	resp := app.server.PostForm("/signup", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw1"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	// The book list renders for the authenticated session, no redirect.
	resp = app.server.GET("/books")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := testutils.ReadBody(t, resp)
	assert.Contains(t, body, "alice")

	// Logout returns to the landing page and drops the session.
	resp = app.server.PostForm("/logout", nil)
	testutils.AssertRedirect(t, resp, "/")

	resp = app.server.GET("/books")
	testutils.AssertRedirect(t, resp, "/login")
}

func TestLoginAfterSignup(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	resp := app.server.PostForm("/signup", url.Values{
		"username": {"alice"}, "email": {"a@x.com"}, "password": {"pw1"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	resp = app.server.PostForm("/logout", nil)
	testutils.AssertRedirect(t, resp, "/")

	resp = app.server.PostForm("/login", url.Values{
		"username": {"alice"}, "password": {"pw1"},
	})
	testutils.AssertRedirect(t, resp, "/books")
}

func TestSignupValidation(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	for _, form := range []url.Values{
		{"email": {"a@x.com"}, "password": {"pw"}},
		{"username": {"bob"}, "password": {"pw"}},
		{"username": {"bob"}, "email": {"b@x.com"}},
	} {
		resp := app.server.PostForm("/signup", form)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := testutils.ReadBody(t, resp)
		assert.Contains(t, body, "Email, username, and password are required.")
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	resp := app.server.PostForm("/signup", url.Values{
		"username": {"alice"}, "email": {"a@x.com"}, "password": {"pw1"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	resp = app.server.PostForm("/signup", url.Values{
		"username": {"alice"}, "email": {"other@x.com"}, "password": {"pw2"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := testutils.ReadBody(t, resp)
	assert.Contains(t, body, "Error while registering")
}

func TestLoginFailureFlash(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	resp := app.server.PostForm("/login", url.Values{
		"username": {"nobody"}, "password": {"nope"},
	})
	testutils.AssertRedirect(t, resp, "/login")

	// The flash message shows up once on the login page.
	resp = app.server.GET("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := testutils.ReadBody(t, resp)
	assert.Contains(t, body, "Invalid username or password")

	resp = app.server.GET("/login")
	body = testutils.ReadBody(t, resp)
	assert.NotContains(t, body, "Invalid username or password")
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	for _, path := range []string{"/books", "/books/new"} {
		resp := app.server.GET(path)
		testutils.AssertRedirect(t, resp, "/login")
	}

	resp := app.server.PostForm("/books", url.Values{"title": {"Dune"}, "author": {"Herbert"}})
	testutils.AssertRedirect(t, resp, "/login")
}

func TestResetPasswordFlow(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	resp := app.server.PostForm("/signup", url.Values{
		"username": {"alice"}, "email": {"a@x.com"}, "password": {"old-pw"},
	})
	testutils.AssertRedirect(t, resp, "/books")

	t.Run("UnknownUser", func(t *testing.T) {
		resp := app.server.PostForm("/reset", url.Values{
			"username": {"nobody"}, "password": {"x"}, "new_password": {"y"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, testutils.ReadBody(t, resp), "User not found")
	})

	t.Run("IncorrectCurrentPassword", func(t *testing.T) {
		resp := app.server.PostForm("/reset", url.Values{
			"username": {"alice"}, "password": {"wrong"}, "new_password": {"new-pw"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, testutils.ReadBody(t, resp), "Current password is incorrect")
	})

	t.Run("Success", func(t *testing.T) {
		resp := app.server.PostForm("/reset", url.Values{
			"username": {"alice"}, "password": {"old-pw"}, "new_password": {"new-pw"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, testutils.ReadBody(t, resp), "Password successfully changed")

		// Old password no longer logs in, the new one does.
		resp = app.server.PostForm("/login", url.Values{
			"username": {"alice"}, "password": {"old-pw"},
		})
		testutils.AssertRedirect(t, resp, "/login")

		resp = app.server.PostForm("/login", url.Values{
			"username": {"alice"}, "password": {"new-pw"},
		})
		testutils.AssertRedirect(t, resp, "/books")
	})
}
