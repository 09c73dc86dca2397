package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	jww "github.com/spf13/jwalterweatherman"

	"bazaar-backend/config"
	"bazaar-backend/controller"
	"bazaar-backend/dao"
	"bazaar-backend/pkg/identity"
	"bazaar-backend/usecase"
)

func main() {
	jww.SetStdoutThreshold(jww.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		jww.FATAL.Fatalf("load config: %v", err)
	}

	// 1. DB Connection
	db, err := sql.Open("mysql", cfg.MySQL.DSN())
	if err != nil {
		jww.FATAL.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		jww.FATAL.Fatalf("connect to db: %v", err)
	}
	jww.INFO.Println("Connected to Database!")

	// 2. Dependency Injection. Backend handles are constructed here and
	// passed down; nothing holds process-wide globals.
	userRepo := dao.NewUserRepository(db)
	listingRepo := dao.NewListingRepository(db)
	isoRepo := dao.NewISORepository(db)
	convRepo := dao.NewConversationRepository(db)
	msgRepo := dao.NewMessageRepository(db)
	photoStore := dao.NewPhotoStore(cfg.Photo.Dir, cfg.Photo.BaseURL)

	gate := identity.NewGate(cfg.Email.Domains)
	authUsecase := usecase.NewAuthUsecase(userRepo, gate, cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiresIn)*time.Hour)
	userUsecase := usecase.NewUserUsecase(userRepo)
	photoUsecase := usecase.NewPhotoUsecase(photoStore)
	listingUsecase := usecase.NewListingUsecase(listingRepo, userRepo, photoUsecase)
	isoUsecase := usecase.NewISOUsecase(isoRepo, userRepo, photoUsecase)
	chatUsecase := usecase.NewChatUsecase(convRepo, msgRepo)

	authController := controller.NewAuthController(authUsecase)
	userController := controller.NewUserController(userUsecase, authUsecase)
	listingController := controller.NewListingController(listingUsecase, authUsecase)
	isoController := controller.NewISOController(isoUsecase, authUsecase)
	photoController := controller.NewPhotoController(photoUsecase, authUsecase)
	chatController := controller.NewChatController(chatUsecase, authUsecase)

	// 3. Routing
	http.HandleFunc("/auth/register", authController.HandleRegister)
	http.HandleFunc("/auth/login", authController.HandleLogin)
	http.HandleFunc("/auth/reset-password", authController.HandlePasswordReset)
	http.HandleFunc("/auth/verify", authController.HandleVerify)
	http.HandleFunc("/me", userController.HandleMe)
	http.HandleFunc("/users/", userController.HandleUserDetail)
	http.HandleFunc("/listings", listingController.HandleListings)
	http.HandleFunc("/listings/", listingController.HandleListingDetail)
	http.HandleFunc("/isos", isoController.HandleISOs)
	http.HandleFunc("/isos/", isoController.HandleISODetail)
	http.HandleFunc("/photos", photoController.HandlePhotos)
	http.Handle("/photos/", http.StripPrefix("/photos/", http.FileServer(http.Dir(cfg.Photo.Dir))))
	http.HandleFunc("/conversations", chatController.HandleConversations)
	http.HandleFunc("/conversations/", chatController.HandleConversationDetail)

	// 4. Start Server
	addr := ":" + cfg.Server.Port
	fmt.Printf("Server starting on port %s...\n", cfg.Server.Port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		jww.FATAL.Fatalf("serve: %v", err)
	}
}
