package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
	"github.com/wicket-bot/wicket/pkg/utils/async"
)

func (h *Handler) dispatch(ctx context.Context, fn func(ctx context.Context) error) {
	async.Dispatch(ctx, fn)
}

func (h *Handler) reply(ctx context.Context, ch types.ChannelID, text string) {
	if _, err := h.platform.SendText(ctx, ch, text); err != nil {
		apperr.Handle(ctx, err)
	}
}

func (h *Handler) onMessageCreate(_ *discordgo.Session, ev *discordgo.MessageCreate) {
	if ev.GuildID != h.guildID.String() || ev.Author == nil || ev.Author.Bot {
		return
	}
	ctx := h.eventCtx("messageCreate")

	h.dispatch(ctx, func(ctx context.Context) error {
		h.HandleMessage(ctx, ev)
		return nil
	})
}

// HandleMessage routes one guild message through moderation, the ticket
// flow, the autoresponder and the command set
func (h *Handler) HandleMessage(ctx context.Context, ev *discordgo.MessageCreate) {
	msg := inboundOf(ev)
	s := h.store.Settings()

	// the banned-word filter runs on everything and never short-circuits
	h.mod.HandleMessage(ctx, msg)

	// any message in a ticket category drives that channel's ticket flow
	if info, err := h.platform.ChannelInfo(ctx, msg.ChannelID); err == nil && info.ParentID != "" {
		for _, cat := range s.TicketCategoryIDs {
			if info.ParentID == cat {
				h.ticket.HandleActivity(ctx, msg.ChannelID)
				break
			}
		}
	}

	// a pending close-with-reason prompt consumes the next message whole
	if h.ticket.OfferReason(msg.ChannelID, msg.AuthorID, msg.Content) {
		return
	}

	if !strings.HasPrefix(msg.Content, h.prefix) {
		h.resp.HandleMessage(ctx, msg)
		return
	}

	raw, args, rest := splitCommand(msg.Content, h.prefix)
	if raw == "" {
		return
	}
	cmd := s.CanonicalCommand(raw)

	// every command requires elevated privilege
	if !h.auth.IsStaff(msg.AuthorID) {
		return
	}
	h.runCommand(ctx, ev, msg, cmd, args, rest)
}

func (h *Handler) runCommand(ctx context.Context, ev *discordgo.MessageCreate, msg *model.InboundMessage, cmd string, args []string, rest string) {
	ch := msg.ChannelID

	switch cmd {
	case "aaa":
		h.cmdDeleteChannel(ctx, msg, args)

	case "setcmd":
		h.cmdSetAlias(ctx, msg, args)

	case "admin":
		h.cmdAdmin(ctx, ev, msg, args)

	case "blacklist":
		h.cmdBlacklist(ctx, ev, msg, args)

	case "setticketcategory":
		h.cmdSetMainCategory(ctx, msg, args)

	case "setlogs":
		if len(args) == 0 {
			h.reply(ctx, ch, "mention a text channel or provide a channel id.")
			return
		}
		target := channelArg(args[0])
		if target == "" {
			h.reply(ctx, ch, "mention a text channel or provide a channel id.")
			return
		}
		name, err := h.admin.SetLogsChannel(ctx, target)
		if err != nil {
			h.reply(ctx, ch, "that id is not a valid text channel.")
			return
		}
		h.reply(ctx, ch, fmt.Sprintf("logs channel set to #%s.", name))

	case "pingrole":
		h.cmdPingRole(ctx, msg, args)

	case "ar":
		h.cmdAutoresponder(ctx, msg, args)

	case "send":
		trigger := strings.ToLower(strings.TrimSpace(rest))
		if trigger == "" {
			h.reply(ctx, ch, fmt.Sprintf("usage: %ssend triggerWord", h.prefix))
			return
		}
		if err := h.admin.SetAutoSendTrigger(ctx, trigger); err != nil {
			h.reply(ctx, ch, fmt.Sprintf("no autoresponder found for %q. set one first with %sar set.", trigger, h.prefix))
			return
		}
		h.reply(ctx, ch, fmt.Sprintf("auto-send trigger set to %q. new channels in the sendcategory will send that message automatically.", trigger))

	case "sendcategory":
		if len(args) == 0 || categoryArg(args[0]) == "" {
			h.reply(ctx, ch, "mention a category or provide a category id.")
			return
		}
		name, err := h.admin.SetAutoSendCategory(ctx, categoryArg(args[0]))
		if err != nil {
			h.reply(ctx, ch, "that id is not a valid category.")
			return
		}
		h.reply(ctx, ch, fmt.Sprintf("auto-send category set to %s. new text channels under this category will post the send trigger message.", name))

	case "delayset":
		h.cmdDelaySet(ctx, msg, args)

	case "panel":
		h.cmdPanel(ctx, msg, args)

	case "useless":
		h.cmdMove(ctx, msg, args, false)

	case "important":
		h.cmdMove(ctx, msg, args, true)

	case "done":
		h.reply(ctx, ch, "closing channel...")
		if err := h.ticket.Close(ctx, ch, msg.AuthorID, msg.AuthorName, ""); err != nil {
			apperr.Handle(ctx, err)
		}

	case "nuke":
		if _, err := h.ticket.Nuke(ctx, ch, msg.AuthorID, msg.AuthorName); err != nil {
			apperr.Handle(ctx, err)
			h.reply(ctx, ch, "the channel could not be cloned.")
		}

	case "pingtickets":
		h.cmdPingTickets(ctx, msg)

	case "hi":
		h.cmdRename(ctx, ev, msg)

	case "help":
		if err := h.sendHelp(ctx, ch, 1); err != nil {
			apperr.Handle(ctx, err)
		}
	}
}

func (h *Handler) cmdDeleteChannel(ctx context.Context, msg *model.InboundMessage, args []string) {
	if !h.auth.IsDeveloper(msg.AuthorID) {
		h.reply(ctx, msg.ChannelID, "this command is developer-only.")
		return
	}

	target := msg.ChannelID
	if len(args) > 0 {
		if id := channelArg(args[0]); id != "" {
			target = id
		}
	}

	if target == msg.ChannelID {
		h.reply(ctx, msg.ChannelID, "deleting this channel...")
	} else {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("deleting channel %s...", target.Mention()))
	}

	if err := h.admin.DeleteChannel(ctx, target, msg.AuthorID, msg.AuthorName); err != nil {
		apperr.Handle(ctx, err)
		h.reply(ctx, msg.ChannelID, "failed to delete that channel.")
	}
}

func (h *Handler) cmdSetAlias(ctx context.Context, msg *model.InboundMessage, args []string) {
	if len(args) < 2 {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("usage: %ssetcmd baseName newName\nexample: %ssetcmd panel ticketpanel", h.prefix, h.prefix))
		return
	}
	base := strings.ToLower(args[0])
	alias := strings.ToLower(args[1])

	if err := h.admin.SetCommandAlias(ctx, base, alias); err != nil {
		if taken, ok := goerr.Values(err)["base"]; ok && taken != base {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s%s is already used for base command %q. choose another name.", h.prefix, alias, taken))
			return
		}
		h.reply(ctx, msg.ChannelID, "that base command cannot be renamed. valid base commands:\n"+strings.Join(baseCommands(), ", "))
		return
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("command **%s** is now triggered by `%s%s`", base, h.prefix, alias))
}

func (h *Handler) cmdAdmin(ctx context.Context, ev *discordgo.MessageCreate, msg *model.InboundMessage, args []string) {
	if len(args) == 0 {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("usage: %sadmin set <user>, %sadmin category <category>, %sadmin importantcategory <category>", h.prefix, h.prefix, h.prefix))
		return
	}
	sub := strings.ToLower(args[0])
	args = args[1:]

	switch sub {
	case "set":
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		target := userArg(ev, arg)
		if target == "" {
			h.reply(ctx, msg.ChannelID, "tag a user or give a valid user id.")
			return
		}
		if err := h.admin.AddAdmin(ctx, target); err != nil {
			apperr.Handle(ctx, err)
			return
		}
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s is now an admin.", target.Mention()))

	case "category":
		h.cmdSetMainCategory(ctx, msg, args)

	case "importantcategory":
		if len(args) == 0 || categoryArg(args[0]) == "" {
			h.reply(ctx, msg.ChannelID, "mention a category or provide a category id.")
			return
		}
		name, err := h.admin.SetImportantCategory(ctx, categoryArg(args[0]))
		if err != nil {
			h.reply(ctx, msg.ChannelID, "that id is not a valid category.")
			return
		}
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("important category set to %s.", name))

	default:
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("unknown %sadmin subcommand.", h.prefix))
	}
}

func (h *Handler) cmdSetMainCategory(ctx context.Context, msg *model.InboundMessage, args []string) {
	if len(args) == 0 || categoryArg(args[0]) == "" {
		h.reply(ctx, msg.ChannelID, "mention a category or provide a category id.")
		return
	}
	name, err := h.admin.SetMainCategory(ctx, categoryArg(args[0]))
	if err != nil {
		h.reply(ctx, msg.ChannelID, "that id is not a valid category.")
		return
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("ticket category set to %s.", name))
}

func (h *Handler) cmdBlacklist(ctx context.Context, ev *discordgo.MessageCreate, msg *model.InboundMessage, args []string) {
	if len(args) > 0 && strings.ToLower(args[0]) == "list" {
		users := h.admin.BlacklistList()
		if len(users) == 0 {
			h.reply(ctx, msg.ChannelID, "no users are currently blacklisted.")
			return
		}
		lines := make([]string, 0, len(users))
		for _, id := range users {
			lines = append(lines, fmt.Sprintf("- %s (%s)", id.Mention(), id))
		}
		h.reply(ctx, msg.ChannelID, "blacklisted users:\n"+strings.Join(lines, "\n"))
		return
	}

	removal := false
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "remove", "unblacklist", "unblock":
			removal = true
			args = args[1:]
		}
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	target := userArg(ev, arg)
	if target == "" {
		h.reply(ctx, msg.ChannelID, "tag a user or give a valid user id.")
		return
	}

	if removal {
		if err := h.admin.BlacklistRemove(ctx, target); err != nil {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s is not blacklisted.", target.Mention()))
			return
		}
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s has been removed from the blacklist.", target.Mention()))
		return
	}

	if err := h.admin.BlacklistAdd(ctx, target); err != nil {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s is already blacklisted.", target.Mention()))
		return
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("%s has been blacklisted from creating tickets via the panel.", target.Mention()))
}

func (h *Handler) cmdPingRole(ctx context.Context, msg *model.InboundMessage, args []string) {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "clear", "none", "off":
			if err := h.admin.ClearNotifyRole(ctx); err != nil {
				apperr.Handle(ctx, err)
				return
			}
			h.reply(ctx, msg.ChannelID, "ping role cleared. the bot will not ping a staff role automatically.")
			return
		}
	}

	var role types.RoleID
	if len(args) > 0 {
		role = roleArg(args[0])
	}
	if role == "" {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("mention a role or provide a role id, or use `%spingrole clear`.", h.prefix))
		return
	}
	if err := h.admin.SetNotifyRole(ctx, role); err != nil {
		h.reply(ctx, msg.ChannelID, "that id is not a valid role.")
		return
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("notify role set to %s.", role.Mention()))
}

func (h *Handler) cmdAutoresponder(ctx context.Context, msg *model.InboundMessage, args []string) {
	usage := fmt.Sprintf("use: %sar set word, response | %sar delete word | %sar list", h.prefix, h.prefix, h.prefix)
	if len(args) == 0 {
		h.reply(ctx, msg.ChannelID, usage)
		return
	}
	sub := strings.ToLower(args[0])
	args = args[1:]

	switch sub {
	case "list":
		triggers := h.admin.ListAutoresponders()
		if len(triggers) == 0 {
			h.reply(ctx, msg.ChannelID, "no autoresponders are set.")
			return
		}
		lines := make([]string, 0, len(triggers))
		for _, trigger := range triggers {
			lines = append(lines, "- "+trigger)
		}
		h.reply(ctx, msg.ChannelID, "current autoresponders:\n"+strings.Join(lines, "\n"))

	case "delete":
		trigger := strings.Join(args, " ")
		if strings.TrimSpace(trigger) == "" {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("usage: %sar delete word", h.prefix))
			return
		}
		if err := h.admin.DeleteAutoresponder(ctx, trigger); err != nil {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("no autoresponder found for %q.", strings.ToLower(strings.TrimSpace(trigger))))
			return
		}
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("autoresponder %q deleted.", strings.ToLower(strings.TrimSpace(trigger))))

	case "set":
		joined := strings.Join(args, " ")
		trigger, response, found := strings.Cut(joined, ",")
		if !found {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("format: %sar set word, response message", h.prefix))
			return
		}
		if err := h.admin.SetAutoresponder(ctx, trigger, response); err != nil {
			h.reply(ctx, msg.ChannelID, fmt.Sprintf("make sure you give both a word and a response. example: %sar set index, send your index with screenshots.", h.prefix))
			return
		}
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("autoresponder set for word %q.", strings.ToLower(strings.TrimSpace(trigger))))

	default:
		h.reply(ctx, msg.ChannelID, usage)
	}
}

func (h *Handler) cmdDelaySet(ctx context.Context, msg *model.InboundMessage, args []string) {
	if len(args) == 0 {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("usage: %sdelayset 2s  (or %sdelayset 2 for 2 seconds). 0 = no delay.", h.prefix, h.prefix))
		return
	}
	seconds, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "s"), 64)
	if err != nil {
		h.reply(ctx, msg.ChannelID, fmt.Sprintf("give a number of seconds, e.g. %sdelayset 2", h.prefix))
		return
	}
	if err := h.admin.SetAutoDelay(ctx, seconds); err != nil {
		h.reply(ctx, msg.ChannelID, "delay must be a non-negative number.")
		return
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("delay set to %v seconds before autoresponder / auto-send messages.", seconds))
}

func (h *Handler) cmdPanel(ctx context.Context, msg *model.InboundMessage, args []string) {
	// an optional argument also sets the main ticket category
	if len(args) > 0 {
		cat := categoryArg(args[0])
		if cat == "" {
			h.reply(ctx, msg.ChannelID, "mention a category or provide a category id.")
			return
		}
		if _, err := h.admin.SetMainCategory(ctx, cat); err != nil {
			h.reply(ctx, msg.ChannelID, "that id is not a valid category.")
			return
		}
	}
	if err := h.admin.SendOpenPanel(ctx, msg.ChannelID); err != nil {
		apperr.Handle(ctx, err)
	}
}

func (h *Handler) cmdMove(ctx context.Context, msg *model.InboundMessage, args []string, important bool) {
	target := msg.ChannelID
	if len(args) > 0 {
		if id := channelArg(args[0]); id != "" {
			target = id
		}
	}

	var err error
	if important {
		err = h.admin.MarkImportant(ctx, target, msg.AuthorID, msg.AuthorName)
	} else {
		err = h.admin.MoveToMainCategory(ctx, target, msg.AuthorID, msg.AuthorName)
	}
	if err != nil {
		if errors.Is(err, model.ErrCategoryNotConfigured) {
			if important {
				h.reply(ctx, msg.ChannelID, "important category is not configured.")
			} else {
				h.reply(ctx, msg.ChannelID, "ticket category is not configured.")
			}
			return
		}
		h.reply(ctx, msg.ChannelID, "i could not move that channel.")
		return
	}

	// the command invocation is cleaned up on success
	if err := h.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		apperr.Handle(ctx, err)
	}
}

func baseCommands() []string {
	names := make([]string, 0, len(model.DefaultAliases))
	for base := range model.DefaultAliases {
		names = append(names, base)
	}
	sort.Strings(names)
	return names
}

func (h *Handler) cmdPingTickets(ctx context.Context, msg *model.InboundMessage) {
	if len(h.ticket.List()) == 0 {
		h.reply(ctx, msg.ChannelID, "there are no active tickets to ping.")
		return
	}

	count := h.ticket.PingOwners(ctx)
	if count == 0 {
		h.reply(ctx, msg.ChannelID, "no ticket owners could be pinged.")
		return
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	h.reply(ctx, msg.ChannelID, fmt.Sprintf("pinged %d ticket owner%s.", count, plural))
}

func (h *Handler) cmdRename(ctx context.Context, ev *discordgo.MessageCreate, msg *model.InboundMessage) {
	if ev.MessageReference == nil || ev.MessageReference.MessageID == "" {
		h.reply(ctx, msg.ChannelID, "reply to a message and use hi to rename the channel based on that message.")
		return
	}

	ref, err := h.platform.Message(ctx, msg.ChannelID, types.MessageID(ev.MessageReference.MessageID))
	if err != nil {
		h.reply(ctx, msg.ChannelID, "could not read the replied message.")
		return
	}

	if _, err := h.admin.RenameFromText(ctx, msg.ChannelID, ref.Content, msg.AuthorID, msg.AuthorName); err != nil {
		h.reply(ctx, msg.ChannelID, "i could not rename this channel.")
		return
	}

	if err := h.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		apperr.Handle(ctx, err)
	}
}
