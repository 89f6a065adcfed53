package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-quiz/backend/config"
	"go-quiz/backend/database"
	"go-quiz/backend/game"
	"go-quiz/backend/handlers"
	"go-quiz/backend/middleware"
	"go-quiz/backend/quiz"
	"go-quiz/backend/websocket"

	"github.com/gorilla/mux"
	"github.com/rs/cors" // 引入 CORS 庫
)

func main() {
	cfg := config.LoadConfig()

	database.ConnectMongoDB(cfg.MongoDBURI, cfg.DBName)
	defer database.DisconnectMongoDB()

	redisClient := database.ConnectRedis(cfg.RedisAddr)
	defer redisClient.Close()

	// 組裝房間儲存、題庫、出題者與遊戲服務
	roomStore := database.NewRoomStore(database.GetCollection("rooms"))
	wordStore := database.NewWordStore(database.GetCollection("words"))
	provider := quiz.NewProvider(wordStore, redisClient)

	hub := websocket.NewHub()
	go hub.Run()

	service := game.NewService(roomStore, provider, hub)
	defer service.Shutdown() // 關閉時取消所有房間的回合計時

	gateway := websocket.NewGateway(hub, service, cfg.JWTSecret)
	roomHandler := handlers.NewRoomHandler(service)

	router := mux.NewRouter()

	// 健康檢查路由
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Backend is running!")
	}).Methods("GET")

	// WebSocket 連線 (token 由查詢參數驗證)
	router.HandleFunc("/ws", gateway.HandleConnections)

	// 房間 REST API，需要 JWT 驗證
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	api.HandleFunc("/rooms", roomHandler.CreateRoom).Methods("POST")
	api.HandleFunc("/rooms", roomHandler.ListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", roomHandler.GetRoom).Methods("GET")

	// 設置 CORS 中介軟體
	// 實際生產環境中，你應該將 AllowedOrigins 限制為你的前端網域
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// 將 CORS 中介軟體應用到你的路由上
	handler := c.Handler(router)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// 如果錯誤不是因為主動關閉伺服器，就記錄錯誤並結束程式
			log.Fatalf("Could not listen on %s: %v", serverAddr, err)
		}
	}()

	//當按下 Ctrl+C，程式會收到 SIGINT
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %s, shutting down server...", sig)

	//最多等30秒關閉，避免資料損壞，請求中斷
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully.")
}
