package interfaces

import (
	"context"

	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Platform abstracts the chat platform. The use cases only ever talk to the
// platform through this interface; pkg/service/discord implements it.
type Platform interface {
	// BotUserID returns the identity the bot acts as
	BotUserID() types.UserID

	// Message operations
	SendText(ctx context.Context, ch types.ChannelID, text string) (types.MessageID, error)
	SendEmbed(ctx context.Context, ch types.ChannelID, embed *model.Embed) (types.MessageID, error)
	SendPanel(ctx context.Context, ch types.ChannelID, embed *model.Embed, buttons []model.Button) (types.MessageID, error)
	EditEmbed(ctx context.Context, ch types.ChannelID, msg types.MessageID, embed *model.Embed) error
	DeleteMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error
	PinMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error
	PinnedMessages(ctx context.Context, ch types.ChannelID) ([]*model.PinnedMessage, error)
	Message(ctx context.Context, ch types.ChannelID, msg types.MessageID) (*model.InboundMessage, error)

	// Channel operations
	CreateTicketChannel(ctx context.Context, name string, parent types.CategoryID, access model.ChannelAccess) (types.ChannelID, error)
	ChannelInfo(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error)
	CloneChannel(ctx context.Context, ch types.ChannelID) (types.ChannelID, error)
	DeleteChannel(ctx context.Context, ch types.ChannelID, reason string) error
	SetChannelParent(ctx context.Context, ch types.ChannelID, parent types.CategoryID) error
	SetChannelName(ctx context.Context, ch types.ChannelID, name string) error

	// Category operations
	CategoryInfo(ctx context.Context, cat types.CategoryID) (*model.CategoryInfo, error)
	CountCategoryChannels(ctx context.Context, cat types.CategoryID) (int, error)
	CreateCategory(ctx context.Context, name string) (types.CategoryID, error)

	// Guild operations
	ChannelViewers(ctx context.Context, ch types.ChannelID) ([]*model.Member, error)
	RoleExists(ctx context.Context, role types.RoleID) bool
}
