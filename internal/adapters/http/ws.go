package http

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/jamanager/internal/domain"
	"github.com/dkeye/jamanager/internal/live"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *nethttp.Request) bool { return true },
}

// HandleWS binds one connection to one jam for its whole lifetime. The
// channel is push-only: mutations go through the REST surface, and the only
// inbound frame honored is an application-level ping. Cleanup runs
// unconditionally, including on abnormal termination.
func (s *Server) HandleWS(c *gin.Context) {
	jamID := domain.JamID(c.Param("jamID"))
	log.Info().Str("module", "adapters.http").Str("jam", string(jamID)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("ws upgrade")
		return
	}

	conn := live.NewConn(ws)
	s.hub.Subscribe(jamID, conn)

	go conn.WritePump(s.cfg.PingPeriod, s.cfg.WriteTimeout)

	defer func() {
		s.hub.Unsubscribe(jamID, conn)
		conn.Close()
		log.Info().Str("module", "adapters.http").Str("jam", string(jamID)).Msg("WS connection closed")
	}()

	conn.ReadPump(s.cfg.ReadLimit, s.cfg.PongWait, func(data []byte) {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("bad ws frame")
			return
		}
		if env.Type == "ping" {
			frame, _ := json.Marshal(gin.H{"event": "pong", "data": gin.H{}})
			_ = conn.TrySend(frame)
		}
	})
}
