package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"twentyone-lite/internal/gateway"
	"twentyone-lite/internal/ledger"
	"twentyone-lite/internal/lobby"
)

// SetupRouter mounts the WebSocket gateway, health probes, the status query
// and the history API.
func SetupRouter(lby *lobby.Lobby, gw *gateway.Gateway, history *ledger.HTTPHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "PONG")
	})
	r.GET("/status", func(c *gin.Context) {
		st := lby.Status()
		c.JSON(http.StatusOK, gin.H{
			"active_users":          st.ActiveUsers,
			"known_users":           st.KnownUsers,
			"active_sessions":       st.ActiveSessions,
			"concluded_tournaments": st.ConcludedTournaments,
			"active_matches":        st.ActiveMatches,
			"pending_invitations":   st.PendingInvitations,
			"window":                st.Window.String(),
			"connections":           gw.ConnectionCount(),
		})
	})
	r.GET("/ws", gin.WrapF(gw.HandleWebSocket))

	if history != nil {
		history.RegisterRoutes(r)
	}
	return r
}
