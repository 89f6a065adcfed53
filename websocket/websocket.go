package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go-quiz/backend/models"

	"github.com/gorilla/websocket"
)

const (
	// 將訊息寫入到遠端對等點的最長時間
	writeWait = 10 * time.Second

	// 允許從遠端對等點讀取下一個 pong 訊息的最長時間。
	pongWait = 60 * time.Second

	// 發送 ping 訊息給遠端對等點的週期。
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// upgrader 用於將 HTTP 連線升級為 WebSocket 連線
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 設定true:允許所有來源的連線
		return true
	},
}

// Client 代表一個 WebSocket 客戶端
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan models.Event // 外送事件的緩衝通道
	UserID string
}

// Send 把事件排入客戶端的外送通道，通道滿了就丟棄 (慢客戶端不拖累別人)
func (c *Client) Send(event models.Event) {
	select {
	case c.send <- event:
	default:
		log.Printf("Client %s send buffer full, dropping event %s", c.UserID, event.Event)
	}
}

// readPump 讀取用戶傳來的動作，驗證後交給 Gateway 分派
func (c *Client) readPump(gateway *Gateway) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		// 連線中斷的清理路徑：把使用者從所有參加中的房間移除
		gateway.handleDisconnect(c)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Client disconnected gracefully.")
			} else {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		// 解析收到的動作 (帶標籤的聯合型別)
		var action models.ClientAction
		if err := json.Unmarshal(p, &action); err != nil {
			log.Printf("Error unmarshalling client action: %v", err)
			c.Send(models.Event{
				Event: models.EventError,
				Data:  models.ErrorPayload{Message: "invalid message format"},
			})
			continue
		}

		gateway.dispatch(c, action)
	}
}

// writePump 接收 Hub 廣播來的事件，序列化後傳給前端
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 如果這個 channel 被關閉了（ok == false），就送出 CloseMessage
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			jsonEvent, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error marshalling event: %v", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, jsonEvent); err != nil {
				log.Printf("Error writing event: %v", err)
				return
			}

		// 接收定時器以保持連線活躍並檢測客戶端是否仍在線。
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscription 客戶端與房間頻道的對應
type subscription struct {
	client *Client
	roomID string
}

// roomEvent 要廣播的事件，roomID 為空代表大廳頻道 (所有連線)
type roomEvent struct {
	roomID string
	event  models.Event
}

// Hub 維護所有活躍的 WebSocket 客戶端，並處理房間頻道與大廳頻道的廣播
type Hub struct {
	clients       map[*Client]bool
	clientsByRoom map[string]map[*Client]bool // 按房間ID索引的客戶端
	broadcast     chan roomEvent
	register      chan *Client
	unregister    chan *Client
	subscribe     chan subscription
	unsubscribe   chan subscription
}

// NewHub 創建並返回一個新的 Hub 實例
func NewHub() *Hub {
	return &Hub{
		broadcast:     make(chan roomEvent, 64),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscription),
		unsubscribe:   make(chan subscription),
		clients:       make(map[*Client]bool),
		clientsByRoom: make(map[string]map[*Client]bool),
	}
}

// ToRoom 把事件廣播給已加入該房間頻道的所有客戶端 (實作 game.Broadcaster)
func (h *Hub) ToRoom(roomID string, event models.Event) {
	h.broadcast <- roomEvent{roomID: roomID, event: event}
}

// ToLobby 把事件廣播給所有連線中的客戶端 (實作 game.Broadcaster)
func (h *Hub) ToLobby(event models.Event) {
	h.broadcast <- roomEvent{event: event}
}

// Subscribe 把客戶端加入房間頻道
func (h *Hub) Subscribe(client *Client, roomID string) {
	h.subscribe <- subscription{client: client, roomID: roomID}
}

// Unsubscribe 把客戶端移出房間頻道
func (h *Hub) Unsubscribe(client *Client, roomID string) {
	h.unsubscribe <- subscription{client: client, roomID: roomID}
}

// Run 啟動 Hub 的運行迴圈
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client %s connected. Total clients: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// 從所有房間頻道移除這個客戶端
				for roomID, clientsInRoom := range h.clientsByRoom {
					if clientsInRoom[client] {
						delete(clientsInRoom, client)
						if len(clientsInRoom) == 0 {
							delete(h.clientsByRoom, roomID)
						}
					}
				}
				close(client.send)
				log.Printf("Client %s disconnected. Total clients: %d", client.UserID, len(h.clients))
			}

		case sub := <-h.subscribe:
			if _, ok := h.clientsByRoom[sub.roomID]; !ok {
				h.clientsByRoom[sub.roomID] = make(map[*Client]bool)
			}
			h.clientsByRoom[sub.roomID][sub.client] = true

		case sub := <-h.unsubscribe:
			if clientsInRoom, ok := h.clientsByRoom[sub.roomID]; ok {
				delete(clientsInRoom, sub.client)
				if len(clientsInRoom) == 0 {
					delete(h.clientsByRoom, sub.roomID)
				}
			}

		case message := <-h.broadcast:
			if message.roomID == "" {
				// 大廳頻道：發給所有連線
				for client := range h.clients {
					client.Send(message.event)
				}
				continue
			}

			// 房間頻道：只發給已加入該房間的客戶端
			if clientsInRoom, ok := h.clientsByRoom[message.roomID]; ok {
				for client := range clientsInRoom {
					client.Send(message.event)
				}
			}
		}
	}
}
