package controllers

import (
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// MealFeedWS streams live like counts for one meal ("published" or
// "upcoming" scope). Counts are public data, so no auth here.
func (rc *RealtimeController) MealFeedWS(c *gin.Context) {
	scope := services.LikeScope(c.Param("scope"))
	if scope != services.ScopePublished && scope != services.ScopeUpcoming {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown scope"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rc.serve(c, services.MealTopic(scope, id))
}

// NotificationsWS streams the authenticated user's notification feed.
func (rc *RealtimeController) NotificationsWS(c *gin.Context) {
	rc.serve(c, services.UserTopic(c.GetUint("userID")))
}

func (rc *RealtimeController) serve(c *gin.Context, topic string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{Topic: topic, Conn: conn}
	rc.Hub.Subscribe(cl)

	// ping to keep connections alive through proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.Hub.Unsubscribe(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.Hub.Unsubscribe(cl)
			return
		}
	}
}
