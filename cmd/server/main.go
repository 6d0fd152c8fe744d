package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-token-service/auth"
	"github.com/jrsteele09/go-token-service/internal/config"
	"github.com/jrsteele09/go-token-service/server"
	"github.com/jrsteele09/go-token-service/sessions"
	"github.com/jrsteele09/go-token-service/token"
	"github.com/jrsteele09/go-token-service/users"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running server: %s\n", err)
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if err := c.Validate(); err != nil {
		// Missing signing key/issuer/audience is fatal at startup.
		return fmt.Errorf("configuration: %w", err)
	}
	displayAppname(c.GetAppName())

	directory, err := users.NewDemoDirectory()
	if err != nil {
		return fmt.Errorf("users.NewDemoDirectory: %w", err)
	}

	ledger := sessions.NewInMemoryLedger(sessions.WithSweepInterval(time.Minute))
	defer ledger.Close()

	signer := token.NewHMACSigner(c.GetSigningKey())

	issuer, err := token.NewIssuer(c, signer)
	if err != nil {
		return fmt.Errorf("token.NewIssuer: %w", err)
	}

	validator, err := token.NewValidator(c, signer, ledger)
	if err != nil {
		return fmt.Errorf("token.NewValidator: %w", err)
	}

	authService, err := auth.NewService(auth.Repos{Directory: directory, Ledger: ledger}, issuer, validator)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	srv, err := server.New(c, authService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
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
