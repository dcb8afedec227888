package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/utils"
	"github.com/careerai/backend/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type WSHandler struct {
	interviews services.InterviewService
	redis      *redis.Client
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		redis:      rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type        string `json:"type"` // answer|voice_answer|end_interview
	TurnIndex   int64  `json:"turn_index"`
	Text        string `json:"text"`
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *WSHandler) InterviewWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	interviewID := c.Param("interview_id")
	if interviewID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.InterviewWS", "missing interview_id", nil))
		return
	}

	// authorize interview ownership
	iv, err := h.interviews.Get(c.Request.Context(), interviewID)
	if err != nil {
		writeError(c, err)
		return
	}
	if iv.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "WSHandler.InterviewWS", "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe Redis -> WS
	eventsCh := workers.EventsChannel(interviewID)
	pubsub := h.redis.Subscribe(ctx, eventsCh)
	defer pubsub.Close()

	// reader: WS -> Redis Stream
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel() // unblock the pub/sub receive loop on disconnect
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "answer", "voice_answer":
				if msg.TurnIndex <= 0 {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"turn_index must be > 0"}`))
					continue
				}
				if msg.Type == "answer" && msg.Text == "" {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"text is required"}`))
					continue
				}
				if msg.Type == "voice_answer" && msg.AudioBase64 == "" {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"audio_base64 is required"}`))
					continue
				}

				fields := map[string]any{
					"interview_id": interviewID,
					"user_id":      userID,
					"position":     iv.Position,
					"turn_index":   strconv.FormatInt(msg.TurnIndex, 10),
					"ts_unix":      strconv.FormatInt(time.Now().UTC().Unix(), 10),
				}
				if msg.Type == "answer" {
					fields["kind"] = "text"
					fields["text"] = msg.Text
				} else {
					fields["kind"] = "voice"
					fields["audio_base64"] = msg.AudioBase64
					if msg.Language != "" {
						fields["language"] = msg.Language
					}
				}

				if err := h.redis.XAdd(ctx, &redis.XAddArgs{
					Stream: workers.AnswerStream,
					Values: fields,
				}).Err(); err != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"UNAVAILABLE","message":"failed to enqueue answer"}`))
					continue
				}

				_ = h.redis.Publish(ctx, eventsCh, `{"type":"status","status":"processing","message":"answer queued","turn_index":`+strconv.FormatInt(msg.TurnIndex, 10)+`}`).Err()

			case "end_interview":
				_, _ = h.interviews.End(ctx, interviewID)
				_ = h.redis.Publish(ctx, eventsCh, `{"type":"status","status":"ended","message":"interview ended"}`).Err()
				return

			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	// writer: Redis Pub/Sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		default:
			m, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			// forward as-is (payload expected JSON string)
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}
