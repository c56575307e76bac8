package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robalyx/reaper/internal/bot"
	"github.com/robalyx/reaper/internal/setup"
	"github.com/robalyx/reaper/internal/worker/expiry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := setup.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	discordBot, err := bot.New(app.Config.Discord.Token, app.DB, app.MessageCache, app.Logger)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Printf("Failed to start bot: %v", err)
		return
	}

	// The sweeper shares the bot's enforcement path so reversals behave
	// exactly like the unmute and unban commands
	sweeper := expiry.New(app.DB.Model().Action(), discordBot.Moderator(), app.Logger)
	go sweeper.Start(ctx)

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancel()
	discordBot.Close(context.Background())
}
