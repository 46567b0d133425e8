package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/medialib-admin/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Run("") }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			application.Log.Error("server stopped", "error", err)
			application.Close()
			os.Exit(1)
		}
	case s := <-sig:
		application.Log.Info("shutting down", "signal", s.String())
	}
}
