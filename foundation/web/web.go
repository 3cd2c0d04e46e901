// Package web contains a small web framework extension over gin.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler is the signature used by all application handlers.
type Handler func(c *Context) error

// Middleware is a function designed to run some code before and/or after
// another Handler.
type Middleware func(Handler) Handler

// App is the entrypoint into our application. It configures the context
// object for each of our handlers.
type App struct {
	*gin.Engine
}

// NewApp creates an App value that handles a set of routes for the application.
func NewApp() *App {
	return &App{gin.New()}
}

func (a *App) handle(method string, path string, handler Handler, mw ...Middleware) {
	// Wrap the application middleware around this handler, first one in the
	// slice is the outermost.
	for i := len(mw) - 1; i >= 0; i-- {
		if m := mw[i]; m != nil {
			handler = m(handler)
		}
	}

	h := func(c *gin.Context) {
		ctx := &Context{Context: c, Ctx: c.Request.Context()}

		if err := handler(ctx); err != nil {
			log.Error().Err(err).Str("method", method).Str("path", path).Msg("unhandled request error")
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{
					"message": "internal server error",
					"status":  false,
				})
			}
		}
	}

	a.Engine.Handle(method, path, h)
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}
