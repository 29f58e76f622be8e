package main

import (
	"starboard-bot/bot"
	"starboard-bot/command"
	"starboard-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.Build)
}
