package bot

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"starboard-bot/utils"
)

var c *cron.Cron

// startScheduler starts the cron jobs.
func startScheduler(b *Bot) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@hourly", func() {
		log.Println("Running hourly starboard re-sync...")
		if err := b.Reconciler.ResyncAll(); err != nil {
			utils.Error("Scheduler", "Resync", fmt.Sprintf("Hourly re-sync sweep finished with errors: %v", err))
		}
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduled to run hourly.")

	// Perform an initial re-sync on startup based on config.
	if viper.GetBool("bot.resyncAtStartup") {
		go func() {
			log.Println("Performing initial re-sync on startup...")
			if err := b.Reconciler.ResyncAll(); err != nil {
				utils.Error("Scheduler", "StartupResync", fmt.Sprintf("Startup re-sync finished with errors: %v", err))
				return
			}
			utils.Info("Scheduler", "StartupResync", "Startup re-sync completed successfully")
		}()
	} else {
		log.Println("Skipping initial re-sync on startup as per configuration.")
	}
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
