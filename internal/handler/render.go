package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash queues a one-shot message for the next rendered page.
func flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

// render draws a template with the drained flash messages merged into the
// page data.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	sess := sessions.Default(c)
	succ := sess.Flashes(flashSuccess)
	errs := sess.Flashes(flashError)
	if len(succ) > 0 || len(errs) > 0 {
		// Flashes() consumed them; persist the now-empty session.
		_ = sess.Save()
	}

	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["FlashSuccess"] = succ
	data["FlashError"] = errs
	c.HTML(status, name, data)
}

func renderNotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error404.html", "404 - Page Not Found", nil)
}

func renderInternalError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "error500.html", "500 - Internal Server Error", nil)
}
