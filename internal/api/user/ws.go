package user

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gavel-oj/gavel/internal/auth"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/leaderboard"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleContestEventsWs streams leaderboard events for a contest. The token
// query parameter is optional; anonymous viewers get the public stream.
func (h *Handler) handleContestEventsWs(c *gin.Context) {
	contestID := c.Param("id")

	if _, err := database.GetContest(h.db, contestID); err != nil {
		c.String(http.StatusNotFound, "contest not found")
		return
	}

	staff := false
	if tokenString := c.Query("token"); tokenString != "" {
		claims, err := auth.ValidateJWT(tokenString, h.cfg.Auth.JWT.Secret)
		if err != nil {
			c.String(http.StatusUnauthorized, "invalid token")
			return
		}
		if member, err := database.GetContestMember(h.db, claims.Subject, contestID); err == nil {
			staff = member.IsStaff()
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	msgChan, unsubscribe := pubsub.GetBroker().Subscribe(contestID)
	defer unsubscribe()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for msg := range msgChan {
			if !staff && h.suppressWhileFrozen(contestID, msg) {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.S().Infof("websocket unexpected close error: %v", err)
			}
			break
		}
	}

	// Contest topics stay open for the whole contest, so the writer cannot
	// be woken by a topic close. Drop the subscription now; closing the
	// channel unblocks the writer even if nothing is published again.
	unsubscribe()
	<-clientClosed
}

// suppressWhileFrozen reports whether a cell update must be withheld from an
// unprivileged viewer because the contest is currently frozen.
func (h *Handler) suppressWhileFrozen(contestID string, msg []byte) bool {
	var event pubsub.Event
	if err := json.Unmarshal(msg, &event); err != nil {
		return false
	}
	if event.Stream != leaderboard.StreamCell {
		return false
	}
	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		return true
	}
	return contest.IsFrozen(time.Now())
}
