package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/auth"
	"taskhub/internal/store"
)

// Server wires the endpoint handlers to the validator and store.
type Server struct {
	store  store.Store
	auth   *auth.Service
	engine *gin.Engine
}

// New builds the router with all routes registered.
func New(st store.Store, authSvc *auth.Service) *Server {
	s := &Server{store: st, auth: authSvc}
	s.engine = gin.New()
	s.engine.Use(gin.Logger(), gin.Recovery())
	s.routes()
	return s
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	// Public surface: login page, login endpoint, health probe. Everything
	// else sits behind the session gate.
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/", s.pageHome)
	s.engine.GET("/login", s.pageLogin)

	s.engine.POST("/api/auth/login", s.handleLogin)
	s.engine.POST("/api/auth/logout", s.handleLogout)

	api := s.engine.Group("/api", s.requireUser)
	{
		api.GET("/data", s.handleGetData)
		api.POST("/data", s.handleImportData)

		api.GET("/todos", s.handleListTodos)
		api.POST("/todos", s.handlePostTodos)
		api.GET("/todos/:id", s.handleGetTodo)
		api.PUT("/todos/:id", s.handleUpdateTodo)
		api.DELETE("/todos/:id", s.handleDeleteTodo)

		api.GET("/categories", s.handleListCategories)
		api.POST("/categories", s.handleCreateCategory)
		api.DELETE("/categories/:id", s.handleDeleteCategory)

		api.GET("/tags", s.handleListTags)
		api.POST("/tags", s.handleCreateTag)
		api.DELETE("/tags/:id", s.handleDeleteTag)
	}
}

// pageHome bounces unauthenticated visitors to the login surface.
func (s *Server) pageHome(c *gin.Context) {
	if _, ok := s.sessionUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(homePage))
}

// pageLogin bounces already-authenticated visitors back home.
func (s *Server) pageLogin(c *gin.Context) {
	if _, ok := s.sessionUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

const homePage = `<!doctype html>
<html><head><title>taskhub</title></head>
<body><h1>taskhub</h1><p>Signed in. The task UI talks to /api.</p></body></html>`

const loginPage = `<!doctype html>
<html><head><title>taskhub — sign in</title></head>
<body>
<h1>Sign in</h1>
<form onsubmit="login(event)">
  <input id="u" placeholder="username" autocomplete="username">
  <input id="p" type="password" placeholder="password" autocomplete="current-password">
  <button>Sign in</button>
</form>
<script>
async function login(e) {
  e.preventDefault();
  const res = await fetch('/api/auth/login', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({username: u.value, password: p.value}),
  });
  if (res.ok) { location.href = '/'; } else { alert('invalid credentials'); }
}
</script>
</body></html>`
