package models

// Inbound events that drive starboard reconciliation. Each variant carries
// only the fields its handler needs; the engine exposes one entry point per
// variant.

// ReactionAdded is fired when a user adds a reaction to a message.
type ReactionAdded struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	UserID    int64
	UserIsBot bool
	Emoji     string
}

// ReactionRemoved is fired when a user removes a reaction from a message.
type ReactionRemoved struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	UserID    int64
	Emoji     string
}

// MessageEdited is fired when a tracked message is edited.
type MessageEdited struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

// MessageDeleted is fired when a tracked message is deleted.
type MessageDeleted struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

// ExplicitResync is a manual request to re-reconcile one message.
type ExplicitResync struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}
