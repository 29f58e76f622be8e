package starboard

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"

	"starboard-bot/database"
	"starboard-bot/models"
)

// Notification severities understood by the Notifier.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Reconciler keeps mirrored messages consistent with their scores and with
// moderation state. Reconcile calls are idempotent: redundant invocations
// re-read current state and converge to the same mirror state.
type Reconciler struct {
	store   *database.Store
	source  Source
	channel Channel
	notify  Notifier
	guard   *Guard

	// Striped locks serialize work per (message, starboard) pair, since
	// gateway events for the same pair may be dispatched concurrently.
	locks [64]sync.Mutex
}

// NewReconciler wires the engine to its collaborators.
func NewReconciler(store *database.Store, source Source, channel Channel, notify Notifier, guard *Guard) *Reconciler {
	return &Reconciler{
		store:   store,
		source:  source,
		channel: channel,
		notify:  notify,
		guard:   guard,
	}
}

// OnReactionAdded handles a new reaction: it lazily tracks the message,
// records the (emoji, user) pair, bumps star counters, and reconciles.
// Reactions from bots and emoji no starboard cares about are ignored.
func (r *Reconciler) OnReactionAdded(ev models.ReactionAdded) error {
	if ev.UserIsBot {
		return nil
	}
	starboards, err := r.store.GetStarboards(ev.GuildID)
	if err != nil {
		return err
	}
	if !anyHasEmoji(starboards, ev.Emoji) {
		return nil
	}

	origID, err := r.resolveOrig(ev.MessageID)
	if err != nil {
		return err
	}

	msg, err := r.store.GetMessage(origID)
	if err != nil {
		return err
	}
	if msg == nil {
		live := r.source.Fetch(ev.GuildID, ev.ChannelID, origID)
		if live == nil {
			return nil
		}
		msg, err = r.trackMessage(ev.GuildID, ev.ChannelID, origID, live)
		if err != nil {
			return err
		}
	}

	if err := r.store.CreateUser(ev.UserID, false); err != nil {
		return err
	}
	if err := r.store.CreateMember(ev.UserID, ev.GuildID); err != nil {
		return err
	}

	added, err := r.store.AddReaction(msg.MessageID, ev.Emoji, ev.UserID)
	if err != nil {
		return err
	}
	if added {
		if err := r.store.AddMemberStars(ev.UserID, ev.GuildID, 1, 0); err != nil {
			return err
		}
		if msg.AuthorID != 0 && msg.AuthorID != ev.UserID {
			if err := r.store.AddMemberStars(msg.AuthorID, ev.GuildID, 0, 1); err != nil {
				return err
			}
		}
	}

	return r.ReconcileAll(ev.GuildID, msg.MessageID)
}

// OnReactionRemoved handles a removed reaction and reconciles.
func (r *Reconciler) OnReactionRemoved(ev models.ReactionRemoved) error {
	origID, err := r.resolveOrig(ev.MessageID)
	if err != nil {
		return err
	}
	msg, err := r.store.GetMessage(origID)
	if err != nil || msg == nil {
		return err
	}

	removed, err := r.store.RemoveReactionUser(msg.MessageID, ev.Emoji, ev.UserID)
	if err != nil {
		return err
	}
	if removed {
		if err := r.store.AddMemberStars(ev.UserID, ev.GuildID, -1, 0); err != nil {
			return err
		}
		if msg.AuthorID != 0 && msg.AuthorID != ev.UserID {
			if err := r.store.AddMemberStars(msg.AuthorID, ev.GuildID, 0, -1); err != nil {
				return err
			}
		}
	}

	return r.ReconcileAll(ev.GuildID, msg.MessageID)
}

// OnMessageEdited re-reconciles a tracked message after an edit. The cache
// layer is expected to have refreshed its copy already.
func (r *Reconciler) OnMessageEdited(ev models.MessageEdited) error {
	msg, err := r.store.GetMessage(ev.MessageID)
	if err != nil || msg == nil {
		return err
	}
	return r.ReconcileAll(ev.GuildID, msg.MessageID)
}

// OnMessageDeleted re-reconciles a tracked message after its source was
// deleted; starboards with link_deletes will tear the mirror down.
func (r *Reconciler) OnMessageDeleted(ev models.MessageDeleted) error {
	msg, err := r.store.GetMessage(ev.MessageID)
	if err != nil || msg == nil {
		return err
	}
	return r.ReconcileAll(ev.GuildID, msg.MessageID)
}

// OnResync re-reconciles one message on request, tracking it first if it was
// never seen.
func (r *Reconciler) OnResync(ev models.ExplicitResync) error {
	origID, err := r.resolveOrig(ev.MessageID)
	if err != nil {
		return err
	}
	msg, err := r.store.GetMessage(origID)
	if err != nil {
		return err
	}
	if msg == nil {
		live := r.source.Fetch(ev.GuildID, ev.ChannelID, origID)
		if live == nil {
			return nil
		}
		msg, err = r.trackMessage(ev.GuildID, ev.ChannelID, origID, live)
		if err != nil {
			return err
		}
	}
	return r.ReconcileAll(ev.GuildID, msg.MessageID)
}

// ResyncGuild re-reconciles every message in the guild that currently has a
// mirror. Used by the periodic sweep.
func (r *Reconciler) ResyncGuild(guildID int64) error {
	ids, err := r.store.GetLinkedOrigIDs(guildID)
	if err != nil {
		return err
	}
	var errs error
	for _, id := range ids {
		if err := r.ReconcileAll(guildID, id); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// ResyncAll sweeps every guild with at least one starboard.
func (r *Reconciler) ResyncAll() error {
	guilds, err := r.store.GetStarboardGuildIDs()
	if err != nil {
		return err
	}
	var errs error
	for _, guildID := range guilds {
		if err := r.ResyncGuild(guildID); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// ReconcileAll runs the per-starboard reconciliation for one message across
// all starboards on its guild. Trashed messages get the suppression pass
// instead.
func (r *Reconciler) ReconcileAll(guildID, messageID int64) error {
	msg, err := r.store.GetMessage(messageID)
	if err != nil || msg == nil {
		return err
	}

	var author *models.User
	if msg.AuthorID != 0 {
		author, err = r.store.GetUser(msg.AuthorID)
		if err != nil {
			return err
		}
	}

	starboards, err := r.store.GetStarboards(guildID)
	if err != nil {
		return err
	}

	var errs error
	for _, sb := range starboards {
		if msg.Trashed {
			err = r.reconcileTrashed(msg, sb)
		} else {
			err = r.reconcile(msg, author, sb)
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("starboard %d: %w", sb.ID, err))
		}
	}
	return errs
}

// reconcile drives one (message, starboard) pair to its correct state.
func (r *Reconciler) reconcile(msg *models.Message, author *models.User, sb *models.Starboard) error {
	lock := r.pairLock(msg.MessageID, sb.ID)
	lock.Lock()
	defer lock.Unlock()

	link, err := r.store.GetStarboardMessage(msg.MessageID, sb.ID)
	if err != nil {
		return err
	}
	if link != nil && r.source.Fetch(msg.GuildID, sb.ID, link.MirrorID) == nil {
		// The mirror was deleted out of band. Drop the stale link and
		// start over; no remote delete is attempted.
		if err := r.store.DeleteStarboardMessage(link.MirrorID); err != nil {
			return err
		}
		link = nil
	}

	live := r.source.Fetch(msg.GuildID, msg.ChannelID, msg.MessageID)

	var points int
	if msg.Frozen && link != nil {
		points = link.Points
	} else {
		reactions, err := r.store.GetReactions(msg.MessageID)
		if err != nil {
			return err
		}
		points = CalculatePoints(msg, reactions, sb)
	}

	// Persist the score before acting so it stays visible even if a
	// later step fails.
	if link != nil {
		if err := r.store.SetPoints(link.MirrorID, points); err != nil {
			return err
		}
	}
	if err := r.store.SetMessagePoints(msg.MessageID, points); err != nil {
		return err
	}

	in := EvalInput{Points: points, LivePresent: live != nil}
	if live != nil {
		in.RegexRejected = r.regexRejects(msg, sb, live)
		in.ExcludeRejected = r.excludeRejects(msg, sb, live)
	}
	dec := Evaluate(msg, author, sb, in)

	switch {
	case dec.Delete && link != nil:
		if err := r.store.DeleteStarboardMessage(link.MirrorID); err != nil {
			return err
		}
		if err := r.channel.Delete(sb.ID, link.MirrorID); err != nil && !IsNotFound(err) {
			if IsPermissionDenied(err) {
				r.notify.GuildLog(msg.GuildID, fmt.Sprintf(
					"Tried to delete a starboard message in <#%d>, but the `Manage Messages` permission is missing.",
					sb.ID), SeverityError)
				return nil
			}
			return err
		}

	case !dec.Delete && link == nil && dec.Add && live != nil:
		text, embed := Render(live, sb, msg.IsNSFW, msg.ChannelID, points, dec)
		mirrorID, err := r.channel.Send(sb.ID, text, embed)
		if err != nil {
			if IsPermissionDenied(err) {
				r.notify.GuildLog(msg.GuildID, fmt.Sprintf(
					"Tried to send a starboard message to <#%d>, but the `Send Messages` permission is missing.",
					sb.ID), SeverityError)
				return nil
			}
			return err
		}
		if err := r.store.CreateStarboardMessage(mirrorID, msg.MessageID, sb.ID); err != nil {
			return err
		}
		if err := r.store.SetPoints(mirrorID, points); err != nil {
			return err
		}
		if sb.Autoreact {
			if err := r.autoreact(msg.GuildID, sb, mirrorID); err != nil {
				return err
			}
		}

	case !dec.Delete && link != nil && live != nil:
		text, embed := Render(live, sb, msg.IsNSFW, msg.ChannelID, points, dec)
		if !sb.LinkEdits {
			embed = nil
		}
		if err := r.editMirror(msg.GuildID, sb, link.MirrorID, &text, embed); err != nil {
			return err
		}

	case !dec.Delete && link != nil:
		// Source unresolvable: keep the score line current, leave the
		// rendered content alone.
		text := PlainText(sb, msg.ChannelID, points, dec)
		if err := r.editMirror(msg.GuildID, sb, link.MirrorID, &text, nil); err != nil {
			return err
		}
	}
	return nil
}

// reconcileTrashed replaces the mirror content of a suppressed message.
func (r *Reconciler) reconcileTrashed(msg *models.Message, sb *models.Starboard) error {
	lock := r.pairLock(msg.MessageID, sb.ID)
	lock.Lock()
	defer lock.Unlock()

	link, err := r.store.GetStarboardMessage(msg.MessageID, sb.ID)
	if err != nil || link == nil {
		return err
	}
	if r.source.Fetch(msg.GuildID, sb.ID, link.MirrorID) == nil {
		return nil
	}
	return r.editMirror(msg.GuildID, sb, link.MirrorID, nil, TrashedEmbed())
}

func (r *Reconciler) editMirror(guildID int64, sb *models.Starboard, mirrorID int64, text *string, embed *discordgo.MessageEmbed) error {
	err := r.channel.Edit(sb.ID, mirrorID, text, embed)
	if err == nil || IsNotFound(err) {
		// A vanished mirror is a benign race; the stale link is cleaned
		// up on the next pass.
		return nil
	}
	if IsPermissionDenied(err) {
		r.notify.GuildLog(guildID, fmt.Sprintf(
			"Tried to update a starboard message in <#%d>, but the required permissions are missing.",
			sb.ID), SeverityError)
		return nil
	}
	return err
}

func (r *Reconciler) autoreact(guildID int64, sb *models.Starboard, mirrorID int64) error {
	for _, emoji := range sb.StarEmojis {
		err := r.channel.React(sb.ID, mirrorID, emoji)
		if err == nil || IsNotFound(err) {
			continue
		}
		if IsPermissionDenied(err) {
			r.notify.GuildLog(guildID, fmt.Sprintf(
				"Tried to autoreact with %s on a starboard message in <#%d>, but the `Add Reactions` permission is missing. "+
					"Disable the AutoReact setting if this is intended.",
				emoji, sb.ID), SeverityError)
			continue
		}
		return err
	}
	return nil
}

// regexRejects applies the include pattern: a message that does not match is
// rejected. Timeouts and invalid patterns fail closed and are reported.
func (r *Reconciler) regexRejects(msg *models.Message, sb *models.Starboard, live *discordgo.Message) bool {
	if sb.Regex == "" {
		return false
	}
	matched, err := r.guard.Matches(live.Content, sb.Regex)
	if err != nil {
		r.reportPatternFailure(msg, sb, sb.Regex, err)
		return true
	}
	return !matched
}

// excludeRejects applies the exclude pattern: a message that matches is
// rejected. Timeouts and invalid patterns fail closed and are reported.
func (r *Reconciler) excludeRejects(msg *models.Message, sb *models.Starboard, live *discordgo.Message) bool {
	if sb.ExcludeRegex == "" {
		return false
	}
	matched, err := r.guard.Matches(live.Content, sb.ExcludeRegex)
	if err != nil {
		r.reportPatternFailure(msg, sb, sb.ExcludeRegex, err)
		return true
	}
	return matched
}

func (r *Reconciler) reportPatternFailure(msg *models.Message, sb *models.Starboard, pattern string, err error) {
	if errors.Is(err, ErrPatternTimeout) {
		r.notify.GuildLog(msg.GuildID, fmt.Sprintf(
			"Tried to match `%s` against https://discord.com/channels/%d/%d/%d, but it took too long, "+
				"so the message was not allowed on <#%d>. Try improving the efficiency of your regex.",
			pattern, msg.GuildID, msg.ChannelID, msg.MessageID, sb.ID), SeverityError)
		return
	}
	r.notify.GuildLog(msg.GuildID, fmt.Sprintf(
		"The pattern `%s` configured on <#%d> could not be used: %v", pattern, sb.ID, err), SeverityError)
}

// resolveOrig maps a mirror message ID back to its source message ID, so
// events on the mirror count toward the source. Non-mirror IDs map to
// themselves.
func (r *Reconciler) resolveOrig(messageID int64) (int64, error) {
	link, err := r.store.GetStarboardMessageByMirror(messageID)
	if err != nil {
		return 0, err
	}
	if link != nil {
		return link.OrigID, nil
	}
	return messageID, nil
}

// trackMessage lazily creates the guild, author and message rows for a
// message seen for the first time.
func (r *Reconciler) trackMessage(guildID, channelID, messageID int64, live *discordgo.Message) (*models.Message, error) {
	if err := r.store.CreateGuild(guildID); err != nil {
		return nil, err
	}

	var authorID int64
	if live.Author != nil {
		authorID, _ = strconv.ParseInt(live.Author.ID, 10, 64)
	}
	if authorID != 0 {
		if err := r.store.CreateUser(authorID, live.Author.Bot); err != nil {
			return nil, err
		}
		if err := r.store.CreateMember(authorID, guildID); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		MessageID: messageID,
		GuildID:   guildID,
		ChannelID: channelID,
		AuthorID:  authorID,
		IsNSFW:    r.source.ChannelNSFW(channelID),
	}
	if err := r.store.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *Reconciler) pairLock(messageID, starboardID int64) *sync.Mutex {
	h := uint64(messageID)*31 + uint64(starboardID)
	return &r.locks[h%uint64(len(r.locks))]
}

func anyHasEmoji(starboards []*models.Starboard, emoji string) bool {
	for _, sb := range starboards {
		if sb.HasEmoji(emoji) {
			return true
		}
	}
	return false
}
