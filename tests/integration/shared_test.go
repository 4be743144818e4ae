package integration

import (
	"testing"

	"bookvault/internal/auth"
	"bookvault/internal/book"
	"bookvault/internal/session"
	"bookvault/internal/web"
	"bookvault/middleware"
	"bookvault/tests/testutils"

	"github.com/stretchr/testify/require"
)

type testApp struct {
	server   *testutils.TestServer
	auth     *auth.Service
	books    *book.BookService
	sessions *session.Manager
}

func newTestApp(t *testing.T) (*testApp, func()) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	cfg := testutils.GetTestConfig()

	sessions := session.NewManager(factory.NewSessionRepository(), cfg.SessionSecret)
	authService := auth.NewService(factory.NewUserRepository(), sessions, nil)
	bookService := book.NewBookService(factory.NewBookRepository())
	tokens := auth.NewTokenHandlers(cfg, authService)

	handler, err := web.NewWebHandler(authService, bookService, tokens, sessions, cfg, testutils.TemplatesDir(t))
	require.NoError(t, err)

	mw := middleware.NewMiddleware(cfg, sessions)
	router := handler.SetupRoutes(mw)
	server := testutils.NewTestServer(t, middleware.RecoveryMiddleware(middleware.LoggingMiddleware(router)))

	app := &testApp{
		server:   server,
		auth:     authService,
		books:    bookService,
		sessions: sessions,
	}
	return app, func() {
		server.Close()
		cleanup()
	}
}
