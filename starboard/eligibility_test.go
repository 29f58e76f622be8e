package starboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"starboard-bot/models"
)

func TestEvaluate(t *testing.T) {
	human := &models.User{ID: 10}
	bot := &models.User{ID: 11, IsBot: true}

	tests := []struct {
		name   string
		msg    *models.Message
		author *models.User
		sb     *models.Starboard
		in     EvalInput
		want   Decision
	}{
		{
			name:   "BelowThresholds",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3, RequiredRemove: 0},
			in:     EvalInput{Points: 1, LivePresent: true},
			want:   Decision{},
		},
		{
			name:   "MeetsRequired",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3, RequiredRemove: 0},
			in:     EvalInput{Points: 3, LivePresent: true},
			want:   Decision{Add: true},
		},
		{
			name:   "AtOrBelowRemove",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3, RequiredRemove: 0},
			in:     EvalInput{Points: 0, LivePresent: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "OverlappingThresholdsRemovalWins",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 2, RequiredRemove: 5},
			in:     EvalInput{Points: 3, LivePresent: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "BotAuthorRejected",
			msg:    &models.Message{},
			author: bot,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "BotAuthorAllowed",
			msg:    &models.Message{},
			author: bot,
			sb:     &models.Starboard{ID: 100, Required: 3, AllowBots: true},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Add: true},
		},
		{
			name:   "UnknownAuthorNotTreatedAsBot",
			msg:    &models.Message{},
			author: nil,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Add: true},
		},
		{
			name:   "DeletedSourceWithLinkDeletes",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3, LinkDeletes: true},
			in:     EvalInput{Points: 10, LivePresent: false},
			want:   Decision{Delete: true},
		},
		{
			name:   "DeletedSourceWithoutLinkDeletes",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: false},
			want:   Decision{Add: true},
		},
		{
			name:   "NSFWRejected",
			msg:    &models.Message{IsNSFW: true},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "NSFWAllowed",
			msg:    &models.Message{IsNSFW: true},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3, AllowNSFW: true},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Add: true},
		},
		{
			name:   "RegexRejected",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true, RegexRejected: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "ExcludeRejected",
			msg:    &models.Message{},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true, ExcludeRejected: true},
			want:   Decision{Delete: true},
		},
		{
			name:   "FrozenSuppressesAdd",
			msg:    &models.Message{Frozen: true},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 10, LivePresent: true},
			want:   Decision{Frozen: true},
		},
		{
			name:   "FrozenSuppressesDelete",
			msg:    &models.Message{Frozen: true},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 0, LivePresent: true},
			want:   Decision{Frozen: true},
		},
		{
			name:   "ForcedOverridesEverything",
			msg:    &models.Message{IsNSFW: true, Forced: []int64{100}},
			author: bot,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 0, LivePresent: false, RegexRejected: true},
			want:   Decision{Add: true, Forced: true},
		},
		{
			name:   "ForcedOverridesFrozen",
			msg:    &models.Message{Frozen: true, Forced: []int64{100}},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 0, LivePresent: true},
			want:   Decision{Add: true, Forced: true, Frozen: true},
		},
		{
			name:   "ForcedOnOtherStarboardIgnored",
			msg:    &models.Message{Forced: []int64{200}},
			author: human,
			sb:     &models.Starboard{ID: 100, Required: 3},
			in:     EvalInput{Points: 0, LivePresent: true},
			want:   Decision{Delete: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.msg, tt.author, tt.sb, tt.in))
		})
	}
}
