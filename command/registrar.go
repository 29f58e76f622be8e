package command

import (
	"log"

	"starboard-bot/bot"
	"starboard-bot/utils"
)

// Build wires up all command instances for the given bot.
func Build(b *bot.Bot) []bot.Command {
	auth, err := utils.NewAuth()
	if err != nil {
		log.Printf("Could not load command auth config, role checks disabled: %v", err)
		auth = &utils.Auth{}
	}

	return []bot.Command{
		&ResyncCommand{Reconciler: b.Reconciler, Auth: auth},
		&PingCommand{},
	}
}
