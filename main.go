package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "GENBA-backend/docs"
	"GENBA-backend/internal/attendance"
	"GENBA-backend/internal/masters"
	"GENBA-backend/internal/platform/auth"
	"GENBA-backend/internal/platform/db"
)

// @title       GENBA attendance API
// @version     1.0
// @description 現場の打刻ログから勤務セッション・カレンダー・帳票を作る
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfgPath := flag.String("config", envOr("GENBA_CONFIG", db.DefaultConfigPath), "path to config.yaml")
	addr := flag.String("addr", ":8443", "listen address")
	flag.Parse()

	// 設定読み込み
	cfg, err := db.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("[ERROR] load config: %v", err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		fmt.Println("config mode must be dev or release")
		return
	}
	if mode == "release" && cfg.Auth.JWTSecret == db.DefaultJWTSecretValue {
		log.Fatal("[ERROR] auth.jwt_secret must be set in release mode")
	}

	opts, err := attendance.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatalf("[ERROR] time_calc: %v", err)
	}
	log.Printf("[INFO] time_calc: enabled=%t round=%dmin(%s) break=%dmin utc_offset=%dmin",
		opts.Calc.Enabled, opts.Calc.RoundMinutes, opts.Calc.RoundMode, opts.Calc.BreakMinutes, cfg.UTCOffsetMinutes())

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("[ERROR] connect: %v", err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Location"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		// API ドキュメント（開発中のみ）
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス（DB まで届くか）
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	secret := []byte(cfg.Auth.JWTSecret)

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn, secret), secret)
	attendance.RegisterRoutes(api, attendance.NewService(conn, opts), auth.RequireAuth(secret))
	masters.RegisterRoutes(api, masters.NewService(conn), auth.RequireAuth(secret), auth.RequireRole(auth.RoleAdmin))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// TLS設定
	certFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Cert)
	keyFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Key)

	go func() {
		log.Printf("[INFO] listening on https://0.0.0.0%s", *addr)
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
