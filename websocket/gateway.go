package websocket

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go-quiz/backend/game"
	"go-quiz/backend/models"
	"go-quiz/backend/utils"
)

// actionTimeout 單一動作處理的逾時上限 (含 Mongo/Redis I/O)
const actionTimeout = 10 * time.Second

// Gateway 把客戶端的 WebSocket 動作分派到遊戲服務層，
// 並把錯誤與個人結果 (answerResult) 只回給發出動作的客戶端
type Gateway struct {
	hub       *Hub
	service   *game.Service
	jwtSecret string
}

// NewGateway 建立 Gateway
func NewGateway(hub *Hub, service *game.Service, jwtSecret string) *Gateway {
	return &Gateway{hub: hub, service: service, jwtSecret: jwtSecret}
}

// HandleConnections 處理 WebSocket 連線請求。
// token 由查詢參數帶入，驗證失敗直接拒絕升級
func (g *Gateway) HandleConnections(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token is required for WebSocket connection", http.StatusUnauthorized)
		return
	}

	userID, err := utils.GetUserIDFromToken(token, g.jwtSecret)
	if err != nil {
		log.Printf("Rejected WebSocket connection with invalid token: %v", err)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		hub:    g.hub,
		conn:   conn,
		send:   make(chan models.Event, 256),
		UserID: userID,
	}
	client.hub.register <- client

	go client.writePump()
	client.readPump(g) // readPump 會在連線關閉時自動取消註冊並觸發斷線清理
}

// dispatch 依動作類型分派到服務層。動作在這裡驗證完才往下送
func (g *Gateway) dispatch(client *Client, action models.ClientAction) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch action.Action {
	case models.ActionJoinRoom:
		if action.RoomID == "" {
			g.sendError(client, "roomId is required")
			return
		}
		// 先訂閱頻道再加入，確保加入後的廣播不會漏接；被拒絕就退訂
		g.hub.Subscribe(client, action.RoomID)
		room, err := g.service.JoinRoom(ctx, action.RoomID, client.UserID)
		if err != nil {
			g.hub.Unsubscribe(client, action.RoomID)
			g.sendError(client, joinErrorMessage(err))
			return
		}
		// 直接回一份快照給加入者本人，避開訂閱生效前的廣播空窗
		client.Send(models.Event{Event: models.EventRoomUpdate, Data: room})

	case models.ActionLeaveRoom:
		if action.RoomID == "" {
			g.sendError(client, "roomId is required")
			return
		}
		g.hub.Unsubscribe(client, action.RoomID)
		if err := g.service.LeaveRoom(ctx, action.RoomID, client.UserID); err != nil {
			if !errors.Is(err, models.ErrRoomNotFound) {
				log.Printf("Error leaving room %s: %v", action.RoomID, err)
			}
			g.sendError(client, "room not found")
		}

	case models.ActionReady:
		if action.RoomID == "" {
			g.sendError(client, "roomId is required")
			return
		}
		if _, err := g.service.SetReady(ctx, action.RoomID, client.UserID, action.Ready); err != nil {
			g.sendError(client, "room not found")
		}

	case models.ActionSendMessage:
		if action.RoomID == "" {
			g.sendError(client, "roomId is required")
			return
		}
		if err := g.service.SendMessage(ctx, action.RoomID, client.UserID, action.Text); err != nil {
			switch {
			case errors.Is(err, game.ErrTextRequired):
				g.sendError(client, "message text is required")
			case errors.Is(err, models.ErrRoomNotFound):
				g.sendError(client, "room not found")
			default:
				log.Printf("Error sending message to room %s: %v", action.RoomID, err)
				g.sendError(client, "failed to send message")
			}
		}

	case models.ActionSubmitAnswer:
		if action.RoomID == "" {
			g.sendError(client, "roomId is required")
			return
		}
		result, err := g.service.SubmitAnswer(ctx, action.RoomID, client.UserID, action.Answer)
		if err != nil {
			if errors.Is(err, models.ErrRoomNotFound) {
				g.sendError(client, "room not found")
			} else {
				log.Printf("Error submitting answer for room %s: %v", action.RoomID, err)
				g.sendError(client, "failed to submit answer")
			}
			return
		}
		// 答題結果只回給提交者本人
		client.Send(models.Event{
			Event: models.EventAnswerResult,
			Data: models.AnswerResultPayload{
				Correct:         result.Correct,
				AlreadyAnswered: result.AlreadyAnswered,
				TotalScore:      result.TotalScore,
			},
		})

	default:
		g.sendError(client, "unknown action")
	}
}

// handleDisconnect 連線中斷時把使用者從所有參加中的房間移除
func (g *Gateway) handleDisconnect(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	g.service.Disconnect(ctx, client.UserID)
}

// sendError 把錯誤事件只回給發生錯誤的客戶端
func (g *Gateway) sendError(client *Client, message string) {
	client.Send(models.Event{
		Event: models.EventError,
		Data:  models.ErrorPayload{Message: message},
	})
}

// joinErrorMessage 把加入房間的拒絕原因轉成給客戶端的訊息
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, game.ErrRoomFull):
		return "room is full"
	case errors.Is(err, game.ErrRoomNotLobby):
		return "game already started in this room"
	default:
		return "failed to join room"
	}
}
