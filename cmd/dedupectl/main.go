// Command dedupectl runs duplicate scans and merges against the media
// library from the shell, using the same configuration as the server.
package main

import (
	"fmt"
	"os"

	"github.com/yungbote/medialib-admin/internal/app"
	"github.com/yungbote/medialib-admin/internal/services"
)

func openApp() (services.DedupeService, func(), error) {
	application, err := app.New()
	if err != nil {
		return nil, nil, fmt.Errorf("init app: %w", err)
	}
	return application.Services.Dedupe, application.Close, nil
}

func main() {
	if err := RootCommand(openApp).Execute(); err != nil {
		os.Exit(1)
	}
}
