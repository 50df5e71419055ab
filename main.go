package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"thriveup_server/controllers"
	"thriveup_server/events"
	"thriveup_server/routes"
	"thriveup_server/services"
	"thriveup_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on environment variables")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Redis backs presence and per-thread unread counters.
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	presenceService := services.NewPresenceService(redisClient, "thriveup")

	// S3 signs media upload/read URLs.
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}
	s3Client, err := services.InitializeS3Client(region)
	if err != nil {
		log.Fatalf("❌ Failed to initialize S3 client: %v", err)
	}
	s3Service := &services.S3Service{Client: s3Client, Bucket: os.Getenv("S3_BUCKET")}

	// Event bus fans stored messages out to sockets and caches.
	bus := events.NewBus()

	// Initialize Services
	threadService := &services.ThreadService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{Dynamo: dynamoService}
	chatService := &services.ChatService{Dynamo: dynamoService, Threads: threadService, Bus: bus, Presence: presenceService}
	groupService := &services.GroupService{Dynamo: dynamoService, Bus: bus}
	friendService := &services.FriendService{Dynamo: dynamoService, Notifications: notificationService, Bus: bus}
	teamService := &services.TeamService{Dynamo: dynamoService, Notifications: notificationService, Bus: bus}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	cacheManager := services.NewLastMessageCacheManager(chatService, bus)
	defer cacheManager.Close()

	// Socket.io server plus the bridge that feeds its rooms.
	bridge := socket.NewBridge(nil, bus, chatService, groupService)
	socketServer := socket.NewSocketServer(bridge, presenceService)
	bridge.Server = socketServer
	bridge.Run(context.Background())

	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)

	routes.RegisterRootRoutes(r)
	routes.RegisterChatRoutes(r, controllers.NewChatController(chatService, threadService, cacheManager))
	routes.RegisterGroupRoutes(r, controllers.NewGroupController(groupService))
	routes.RegisterFriendRoutes(r, controllers.NewFriendController(friendService))
	routes.RegisterTeamRoutes(r, controllers.NewTeamController(teamService))
	routes.RegisterNotificationRoutes(r, controllers.NewNotificationController(notificationService))
	routes.RegisterPresenceRoutes(r, controllers.NewPresenceController(presenceService))
	routes.RegisterUserProfileRoutes(r, controllers.NewUserProfileController(userProfileService))
	routes.RegisterS3Routes(r, controllers.NewS3Controller(s3Service))

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
