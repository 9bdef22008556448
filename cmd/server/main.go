package main

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sinkedin/sinkedin/engagement"
	"github.com/sinkedin/sinkedin/feed"
	"github.com/sinkedin/sinkedin/filestore"
	"github.com/sinkedin/sinkedin/identity"
	"github.com/sinkedin/sinkedin/server"
	"github.com/sinkedin/sinkedin/store"
	. "github.com/sinkedin/sinkedin/utils"
	"github.com/sinkedin/sinkedin/utils/dotenv"
	. "github.com/sinkedin/sinkedin/utils/flag"
	. "github.com/sinkedin/sinkedin/utils/log"
)

func newAvatarStore() (filestore.AvatarStore, error) {
	bucket := os.Getenv("AVATAR_S3_BUCKET")
	if bucket != "" {
		return filestore.NewS3AvatarStore(
			os.Getenv("AWS_REGION"),
			bucket,
			os.Getenv("AVATAR_PUBLIC_PREFIX"),
		)
	}
	return filestore.NewLocalAvatarStore("uploads", "http://localhost:8080/uploads")
}

func main() {
	Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if !IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("failed to connect to database: ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("failed to migrate database: ", err)
	}

	cognito, err := identity.NewCognitoClient(context.Background())
	if err != nil {
		Log.Fatal("failed to create cognito client: ", err)
	}
	gateway := identity.NewGateway(cognito, os.Getenv("COGNITO_CLIENT_ID"))

	avatars, err := newAvatarStore()
	if err != nil {
		Log.Fatal("failed to create avatar store: ", err)
	}

	profiles := store.NewProfileStore(db)
	stories := store.NewStoryStore(db)
	comments := store.NewCommentStore(db)
	ledger := engagement.NewLedger(db)
	aggregator := feed.NewAggregator(stories, comments, ledger)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Static("/uploads", "uploads")

	api := server.NewServer(gateway, profiles, stories, comments, ledger, aggregator, avatars)
	api.Register(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	Log.Info("api server starts up")
	router.Run(":" + port)
}
