package bot

import (
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/reaper/internal/database/types"
	"go.uber.org/zap"
)

// Notifier sends best-effort DM notices to action subjects. Delivery
// failure is reported to the caller but never blocks the action.
type Notifier struct {
	client bot.Client
	logger *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(client bot.Client, logger *zap.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger.Named("notify"),
	}
}

// NotifyAction DMs the subject about an action taken against them and
// reports whether the message was delivered.
func (n *Notifier) NotifyAction(action *types.Action, guildName string) bool {
	var content string

	if action.Expiry != nil {
		content = fmt.Sprintf("You have been %s in **%s** until <t:%d:F> for `%s`",
			pastTense(action.Type), guildName, action.Expiry.Unix(), action.Reason)
	} else {
		content = fmt.Sprintf("You have been %s in **%s** for `%s`",
			pastTense(action.Type), guildName, action.Reason)
	}

	return n.send(action.UserID, content)
}

func (n *Notifier) send(userID uint64, content string) bool {
	channel, err := n.client.Rest().CreateDMChannel(snowflake.ID(userID))
	if err != nil {
		n.logger.Debug("Failed to create DM channel",
			zap.Uint64("userID", userID), zap.Error(err))
		return false
	}

	_, err = n.client.Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		Build())
	if err != nil {
		n.logger.Debug("Failed to send DM notice",
			zap.Uint64("userID", userID), zap.Error(err))
		return false
	}

	return true
}
