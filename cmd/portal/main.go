package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restaurante-portal/auth"
	"restaurante-portal/internal/config"
	"restaurante-portal/restapi"
	"restaurante-portal/server"
	"restaurante-portal/session"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load() // .env is optional

	c := config.New()
	setLogLevel(c.GetLogLevel())
	displayAppname(c.GetAppName())

	sessions, err := newSessionStore(c)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	api := restapi.New(c.GetAPIBaseURL(), sessions)
	authService, err := auth.NewService(api, sessions, time.Duration(c.GetSessionTTLHours())*time.Hour)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	srv, err := server.New(c, api, authService, sessions)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newSessionStore(c config.Config) (session.Store, error) {
	switch strings.ToLower(c.GetSessionStore()) {
	case "memory":
		return session.NewInMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
		})
		return session.NewRedisStore(client, time.Duration(c.GetSessionTTLHours())*time.Hour), nil
	case "file":
		return session.NewFileStore(c.GetDataFolder())
	default:
		return nil, fmt.Errorf("unknown session store %q", c.GetSessionStore())
	}
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
