// Package handlers exposes the dashboard's HTTP surface. Every endpoint is
// a read of the store or a derived view; the only writes are the session
// lifecycle and the one-way alert resolve.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecomm/backend/services"
	"github.com/securecomm/backend/session"
	"github.com/securecomm/backend/store"
)

var (
	st       *store.Store
	poll     *services.Poller
	sessions *session.Store
	logger   *zap.Logger
)

// Init wires the handler package to its collaborators
func Init(s *store.Store, p *services.Poller, sess *session.Store, log *zap.Logger) {
	st = s
	poll = p
	sessions = sess
	logger = log
}

// ReadyGuard blocks dashboard reads until the initial load has succeeded.
// While loading it answers 503 "loading"; after a failed load it answers
// 503 "cannot initialize" so the client can distinguish the two.
func ReadyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch poll.State() {
		case services.StateReady, services.StateRefreshing:
			c.Next()
			return
		}
		if err := poll.LastLoadError(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cannot initialize", "detail": err.Error()})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard is loading"})
		}
		c.Abort()
	}
}
