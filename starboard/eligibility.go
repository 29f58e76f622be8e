package starboard

import "starboard-bot/models"

// EvalInput carries the facts Evaluate needs. Regex verdicts are folded in
// by the reconciler, which owns the guard and its timeout reporting, so the
// evaluation itself does no I/O.
type EvalInput struct {
	Points      int
	LivePresent bool // the source message is still resolvable remotely

	// RegexRejected is true when an include pattern is set and did not
	// match (or timed out). ExcludeRejected is true when an exclude
	// pattern is set and matched (or timed out). Both fail closed.
	RegexRejected   bool
	ExcludeRejected bool
}

// Decision is the outcome of evaluating one (message, starboard) pair.
type Decision struct {
	Add    bool
	Delete bool
	Forced bool
	Frozen bool
}

// Evaluate applies the policy chain for one (message, starboard) pair.
// Rules run in a fixed order and later rules override earlier ones: score
// thresholds, bot author, deleted source, NSFW, regex filters, freeze, and
// finally force, which always wins. When a score satisfies both thresholds
// at once, removal wins.
func Evaluate(msg *models.Message, author *models.User, sb *models.Starboard, in EvalInput) Decision {
	var d Decision

	if in.Points <= sb.RequiredRemove {
		d.Delete = true
	} else if in.Points >= sb.Required {
		d.Add = true
	}

	if !sb.AllowBots && author != nil && author.IsBot {
		d.Add = false
		d.Delete = true
	}

	if sb.LinkDeletes && !in.LivePresent {
		d.Add = false
		d.Delete = true
	}

	if msg.IsNSFW && !sb.AllowNSFW {
		d.Add = false
		d.Delete = true
	}

	if in.RegexRejected || in.ExcludeRejected {
		d.Add = false
		d.Delete = true
	}

	if msg.Frozen {
		d.Add = false
		d.Delete = false
		d.Frozen = true
	}

	if msg.ForcedOn(sb.ID) {
		d.Add = true
		d.Delete = false
		d.Forced = true
	}

	return d
}
