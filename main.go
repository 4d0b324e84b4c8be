package main

import (
	"context"
	"time"

	"github.com/tarkhineh/tarkhineh/internal/app"
)

const shutdownTimeout = 15 * time.Second

// @title           Tarkhineh API
// @version         1.0
// @description     Phone based sign in with SMS one-time codes and rotating refresh tokens.
// @contact.name    Tarkhineh Support
// @contact.url     https://tarkhineh.ir/contact
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}
