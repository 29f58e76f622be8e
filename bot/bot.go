package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starboard-bot/cache"
	"starboard-bot/config"
	"starboard-bot/database"
	"starboard-bot/starboard"
	"starboard-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Command defines the interface for a bot command.
type Command interface {
	Definition() *discordgo.ApplicationCommand
	Handler(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Bot encapsulates the bot's state.
type Bot struct {
	Session    *discordgo.Session
	Store      *database.Store
	Cache      *cache.Messages
	Reconciler *starboard.Reconciler
	Commands   map[string]Command
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions

	store, err := database.NewStore(viper.GetString("bot.dbPath"))
	if err != nil {
		return nil, fmt.Errorf("error initializing store: %w", err)
	}

	messages := cache.New(dg,
		viper.GetInt("cache.size"),
		time.Duration(viper.GetInt("cache.ttlMinutes"))*time.Minute,
	)
	guard := starboard.NewGuard(time.Duration(viper.GetInt("starboard.regexTimeoutMs")) * time.Millisecond)
	notifier := &utils.GuildNotifier{Session: dg, Store: store}
	reconciler := starboard.NewReconciler(store, messages, starboard.NewChannel(dg), notifier, guard)

	return &Bot{
		Session:    dg,
		Store:      store,
		Cache:      messages,
		Reconciler: reconciler,
		Commands:   make(map[string]Command),
	}, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			utils.Warn("Bot", "CommandRegistration", fmt.Sprintf("Cannot create '%v' command: %v", cmd.Definition().Name, err))
		}
	}

	startScheduler(b)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session and the store.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Store != nil {
		b.Store.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), buildCommands func(*Bot) []Command) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(buildCommands(bot))

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
