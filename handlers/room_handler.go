package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"go-quiz/backend/game"
	"go-quiz/backend/models"
	"go-quiz/backend/utils"

	"github.com/gorilla/mux"
)

// CreateRoomRequest 定義創建房間的請求體
type CreateRoomRequest struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

// ErrorResponse 用於返回 JSON 格式的錯誤訊息
type ErrorResponse struct {
	Message string `json:"message"`
}

// sendJSONError 統一發送 JSON 格式錯誤響應
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Message: message}); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// RoomHandler 房間 REST API 的處理器
type RoomHandler struct {
	service *game.Service
}

// NewRoomHandler 建立 RoomHandler
func NewRoomHandler(service *game.Service) *RoomHandler {
	return &RoomHandler{service: service}
}

// CreateRoom 處理創建房間的請求 (POST /api/rooms)
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		sendJSONError(w, "Unauthorized: user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("JSON decode error: %v", err)
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), userID, req.Name, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNameRequired),
			errors.Is(err, game.ErrNameTooLong),
			errors.Is(err, game.ErrInvalidDifficulty):
			sendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error creating room: %v", err)
			sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(room)
}

// ListRooms 處理獲取所有房間列表的請求 (GET /api/rooms)
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		log.Printf("Error listing rooms: %v", err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rooms == nil {
		rooms = []models.Room{} // 回傳空陣列而不是 null
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rooms)
}

// GetRoom 處理獲取單一房間的請求 (GET /api/rooms/{id})
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["id"]
	if roomID == "" {
		sendJSONError(w, "Room ID is required", http.StatusBadRequest)
		return
	}

	room, err := h.service.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			sendJSONError(w, "Room not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting room %s: %v", roomID, err)
		sendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(room)
}
