// Package mocks provides hand-maintained test doubles for the domain
// interfaces. The mock follows the moq shape: one XxxFunc field per method
// plus recorded calls. Unset funcs return zero values instead of panicking
// so tests only stub what they assert on.
package mocks

import (
	"context"
	"sync"

	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// PlatformMock implements interfaces.Platform for tests
type PlatformMock struct {
	mu sync.Mutex

	BotUserIDFunc             func() types.UserID
	SendTextFunc              func(ctx context.Context, ch types.ChannelID, text string) (types.MessageID, error)
	SendEmbedFunc             func(ctx context.Context, ch types.ChannelID, embed *model.Embed) (types.MessageID, error)
	SendPanelFunc             func(ctx context.Context, ch types.ChannelID, embed *model.Embed, buttons []model.Button) (types.MessageID, error)
	EditEmbedFunc             func(ctx context.Context, ch types.ChannelID, msg types.MessageID, embed *model.Embed) error
	DeleteMessageFunc         func(ctx context.Context, ch types.ChannelID, msg types.MessageID) error
	PinMessageFunc            func(ctx context.Context, ch types.ChannelID, msg types.MessageID) error
	PinnedMessagesFunc        func(ctx context.Context, ch types.ChannelID) ([]*model.PinnedMessage, error)
	MessageFunc               func(ctx context.Context, ch types.ChannelID, msg types.MessageID) (*model.InboundMessage, error)
	CreateTicketChannelFunc   func(ctx context.Context, name string, parent types.CategoryID, access model.ChannelAccess) (types.ChannelID, error)
	ChannelInfoFunc           func(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error)
	CloneChannelFunc          func(ctx context.Context, ch types.ChannelID) (types.ChannelID, error)
	DeleteChannelFunc         func(ctx context.Context, ch types.ChannelID, reason string) error
	SetChannelParentFunc      func(ctx context.Context, ch types.ChannelID, parent types.CategoryID) error
	SetChannelNameFunc        func(ctx context.Context, ch types.ChannelID, name string) error
	CategoryInfoFunc          func(ctx context.Context, cat types.CategoryID) (*model.CategoryInfo, error)
	CountCategoryChannelsFunc func(ctx context.Context, cat types.CategoryID) (int, error)
	CreateCategoryFunc        func(ctx context.Context, name string) (types.CategoryID, error)
	ChannelViewersFunc        func(ctx context.Context, ch types.ChannelID) ([]*model.Member, error)
	RoleExistsFunc            func(ctx context.Context, role types.RoleID) bool

	calls struct {
		SendText        []SendTextCall
		SendEmbed       []SendEmbedCall
		EditEmbed       []EditEmbedCall
		DeleteChannel   []DeleteChannelCall
		DeleteMessage   []DeleteMessageCall
		CreateChannel   []CreateChannelCall
		CreateCategory  []string
		SetParent       []SetParentCall
		SetName         []SetNameCall
	}
}

// SendTextCall records one SendText invocation
type SendTextCall struct {
	Ch   types.ChannelID
	Text string
}

// SendEmbedCall records one SendEmbed invocation
type SendEmbedCall struct {
	Ch    types.ChannelID
	Embed *model.Embed
}

// EditEmbedCall records one EditEmbed invocation
type EditEmbedCall struct {
	Ch    types.ChannelID
	Msg   types.MessageID
	Embed *model.Embed
}

// DeleteChannelCall records one DeleteChannel invocation
type DeleteChannelCall struct {
	Ch     types.ChannelID
	Reason string
}

// DeleteMessageCall records one DeleteMessage invocation
type DeleteMessageCall struct {
	Ch  types.ChannelID
	Msg types.MessageID
}

// CreateChannelCall records one CreateTicketChannel invocation
type CreateChannelCall struct {
	Name   string
	Parent types.CategoryID
	Access model.ChannelAccess
}

// SetParentCall records one SetChannelParent invocation
type SetParentCall struct {
	Ch     types.ChannelID
	Parent types.CategoryID
}

// SetNameCall records one SetChannelName invocation
type SetNameCall struct {
	Ch   types.ChannelID
	Name string
}

func (m *PlatformMock) BotUserID() types.UserID {
	if m.BotUserIDFunc != nil {
		return m.BotUserIDFunc()
	}
	return "bot"
}

func (m *PlatformMock) SendText(ctx context.Context, ch types.ChannelID, text string) (types.MessageID, error) {
	m.mu.Lock()
	m.calls.SendText = append(m.calls.SendText, SendTextCall{Ch: ch, Text: text})
	m.mu.Unlock()
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, ch, text)
	}
	return "", nil
}

func (m *PlatformMock) SendEmbed(ctx context.Context, ch types.ChannelID, embed *model.Embed) (types.MessageID, error) {
	m.mu.Lock()
	m.calls.SendEmbed = append(m.calls.SendEmbed, SendEmbedCall{Ch: ch, Embed: embed})
	m.mu.Unlock()
	if m.SendEmbedFunc != nil {
		return m.SendEmbedFunc(ctx, ch, embed)
	}
	return "", nil
}

func (m *PlatformMock) SendPanel(ctx context.Context, ch types.ChannelID, embed *model.Embed, buttons []model.Button) (types.MessageID, error) {
	if m.SendPanelFunc != nil {
		return m.SendPanelFunc(ctx, ch, embed, buttons)
	}
	return "", nil
}

func (m *PlatformMock) EditEmbed(ctx context.Context, ch types.ChannelID, msg types.MessageID, embed *model.Embed) error {
	m.mu.Lock()
	m.calls.EditEmbed = append(m.calls.EditEmbed, EditEmbedCall{Ch: ch, Msg: msg, Embed: embed})
	m.mu.Unlock()
	if m.EditEmbedFunc != nil {
		return m.EditEmbedFunc(ctx, ch, msg, embed)
	}
	return nil
}

func (m *PlatformMock) DeleteMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error {
	m.mu.Lock()
	m.calls.DeleteMessage = append(m.calls.DeleteMessage, DeleteMessageCall{Ch: ch, Msg: msg})
	m.mu.Unlock()
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, ch, msg)
	}
	return nil
}

func (m *PlatformMock) PinMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error {
	if m.PinMessageFunc != nil {
		return m.PinMessageFunc(ctx, ch, msg)
	}
	return nil
}

func (m *PlatformMock) PinnedMessages(ctx context.Context, ch types.ChannelID) ([]*model.PinnedMessage, error) {
	if m.PinnedMessagesFunc != nil {
		return m.PinnedMessagesFunc(ctx, ch)
	}
	return nil, nil
}

func (m *PlatformMock) Message(ctx context.Context, ch types.ChannelID, msg types.MessageID) (*model.InboundMessage, error) {
	if m.MessageFunc != nil {
		return m.MessageFunc(ctx, ch, msg)
	}
	return &model.InboundMessage{ID: msg, ChannelID: ch}, nil
}

func (m *PlatformMock) CreateTicketChannel(ctx context.Context, name string, parent types.CategoryID, access model.ChannelAccess) (types.ChannelID, error) {
	m.mu.Lock()
	m.calls.CreateChannel = append(m.calls.CreateChannel, CreateChannelCall{Name: name, Parent: parent, Access: access})
	m.mu.Unlock()
	if m.CreateTicketChannelFunc != nil {
		return m.CreateTicketChannelFunc(ctx, name, parent, access)
	}
	return "", nil
}

func (m *PlatformMock) ChannelInfo(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error) {
	if m.ChannelInfoFunc != nil {
		return m.ChannelInfoFunc(ctx, ch)
	}
	return &model.ChannelInfo{ID: ch}, nil
}

func (m *PlatformMock) CloneChannel(ctx context.Context, ch types.ChannelID) (types.ChannelID, error) {
	if m.CloneChannelFunc != nil {
		return m.CloneChannelFunc(ctx, ch)
	}
	return "", nil
}

func (m *PlatformMock) DeleteChannel(ctx context.Context, ch types.ChannelID, reason string) error {
	m.mu.Lock()
	m.calls.DeleteChannel = append(m.calls.DeleteChannel, DeleteChannelCall{Ch: ch, Reason: reason})
	m.mu.Unlock()
	if m.DeleteChannelFunc != nil {
		return m.DeleteChannelFunc(ctx, ch, reason)
	}
	return nil
}

func (m *PlatformMock) SetChannelParent(ctx context.Context, ch types.ChannelID, parent types.CategoryID) error {
	m.mu.Lock()
	m.calls.SetParent = append(m.calls.SetParent, SetParentCall{Ch: ch, Parent: parent})
	m.mu.Unlock()
	if m.SetChannelParentFunc != nil {
		return m.SetChannelParentFunc(ctx, ch, parent)
	}
	return nil
}

func (m *PlatformMock) SetChannelName(ctx context.Context, ch types.ChannelID, name string) error {
	m.mu.Lock()
	m.calls.SetName = append(m.calls.SetName, SetNameCall{Ch: ch, Name: name})
	m.mu.Unlock()
	if m.SetChannelNameFunc != nil {
		return m.SetChannelNameFunc(ctx, ch, name)
	}
	return nil
}

func (m *PlatformMock) CategoryInfo(ctx context.Context, cat types.CategoryID) (*model.CategoryInfo, error) {
	if m.CategoryInfoFunc != nil {
		return m.CategoryInfoFunc(ctx, cat)
	}
	return &model.CategoryInfo{ID: cat, Name: string(cat)}, nil
}

func (m *PlatformMock) CountCategoryChannels(ctx context.Context, cat types.CategoryID) (int, error) {
	if m.CountCategoryChannelsFunc != nil {
		return m.CountCategoryChannelsFunc(ctx, cat)
	}
	return 0, nil
}

func (m *PlatformMock) CreateCategory(ctx context.Context, name string) (types.CategoryID, error) {
	m.mu.Lock()
	m.calls.CreateCategory = append(m.calls.CreateCategory, name)
	m.mu.Unlock()
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, name)
	}
	return types.CategoryID("cat-" + name), nil
}

func (m *PlatformMock) ChannelViewers(ctx context.Context, ch types.ChannelID) ([]*model.Member, error) {
	if m.ChannelViewersFunc != nil {
		return m.ChannelViewersFunc(ctx, ch)
	}
	return nil, nil
}

func (m *PlatformMock) RoleExists(ctx context.Context, role types.RoleID) bool {
	if m.RoleExistsFunc != nil {
		return m.RoleExistsFunc(ctx, role)
	}
	return false
}

// SendTextCalls returns the recorded SendText invocations
func (m *PlatformMock) SendTextCalls() []SendTextCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendTextCall(nil), m.calls.SendText...)
}

// SendEmbedCalls returns the recorded SendEmbed invocations
func (m *PlatformMock) SendEmbedCalls() []SendEmbedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendEmbedCall(nil), m.calls.SendEmbed...)
}

// EditEmbedCalls returns the recorded EditEmbed invocations
func (m *PlatformMock) EditEmbedCalls() []EditEmbedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EditEmbedCall(nil), m.calls.EditEmbed...)
}

// DeleteChannelCalls returns the recorded DeleteChannel invocations
func (m *PlatformMock) DeleteChannelCalls() []DeleteChannelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DeleteChannelCall(nil), m.calls.DeleteChannel...)
}

// DeleteMessageCalls returns the recorded DeleteMessage invocations
func (m *PlatformMock) DeleteMessageCalls() []DeleteMessageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DeleteMessageCall(nil), m.calls.DeleteMessage...)
}

// CreateChannelCalls returns the recorded CreateTicketChannel invocations
func (m *PlatformMock) CreateChannelCalls() []CreateChannelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CreateChannelCall(nil), m.calls.CreateChannel...)
}

// CreateCategoryCalls returns the recorded CreateCategory names
func (m *PlatformMock) CreateCategoryCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls.CreateCategory...)
}

// SetParentCalls returns the recorded SetChannelParent invocations
func (m *PlatformMock) SetParentCalls() []SetParentCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SetParentCall(nil), m.calls.SetParent...)
}

// SetNameCalls returns the recorded SetChannelName invocations
func (m *PlatformMock) SetNameCalls() []SetNameCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SetNameCall(nil), m.calls.SetName...)
}
