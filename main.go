package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golfmatch_server/config"
	"golfmatch_server/notify"
	"golfmatch_server/realtime"
	"golfmatch_server/routes"
	"golfmatch_server/services"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Initializing AWS clients...")
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	dynamoService := &services.DynamoService{Client: dynamodb.NewFromConfig(awsCfg)}
	s3Client := s3.NewFromConfig(awsCfg)

	// Services
	feed := realtime.NewFeed()
	profileService := &services.UserProfileService{Dynamo: dynamoService}
	interactionService := &services.InteractionService{Dynamo: dynamoService, Feed: feed}
	matchService := &services.MatchService{Dynamo: dynamoService}
	channelService := &services.ChannelService{Dynamo: dynamoService}
	chatService := &services.ChatService{Dynamo: dynamoService}
	sessionService := &services.SessionService{Secret: cfg.JWT.Secret, TokenTTL: cfg.JWT.TokenTTL}
	photoService := services.NewPhotoService(s3Client, cfg.AWS.S3Bucket, cfg.AWS.PresignTTL)

	// Realtime surface: popups go out through the socket server, so the
	// notification manager is built around its presenter.
	socketServer := realtime.NewSocketServer()
	presenter := &realtime.SocketPresenter{Server: socketServer}
	manager := notify.NewManager(matchService, channelService, feed, presenter, cfg.Notify.AdvanceDelay)
	realtime.RegisterHandlers(socketServer, sessionService, chatService, manager)
	stopBridge := realtime.StartFeedBridge(socketServer, feed)

	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Error().Err(err).Msg("Socket server error")
		}
	}()
	defer socketServer.Close()

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to GolfMatch")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer)

	routes.RegisterProfileRoutes(r, profileService, interactionService)
	routes.RegisterInteractionRoutes(r, interactionService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChannelRoutes(r, channelService)
	routes.RegisterChatRoutes(r, chatService)
	routes.RegisterPhotoRoutes(r, photoService)
	routes.RegisterSessionRoutes(r, sessionService, profileService)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsHandler,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msgf("🚀 Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Info().Msg("Shutting down...")

	manager.DetachAll()
	stopBridge()
	feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server exited")
}
