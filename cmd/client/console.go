package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
)

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const usage = `/chats                     list private chats
/groups                    list group chats
/open <email>              open a private chat
/say <chatId> <text>       send a private message
/history <chatId>          read a private chat
/group <name> <a,b,...>    create a group
/gsay <chatId> <text>      send a group message
/ghistory <chatId>         read a group chat
/quit`

// parseLine turns one console line into a command frame.
// Blank lines yield a zero frame.
func parseLine(line string) (outbound, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return outbound{}, nil
	}
	rest := func(n int) string {
		return strings.Join(fields[n:], " ")
	}
	need := func(n int) error {
		if len(fields) < n {
			return fmt.Errorf("usage:\n%s", usage)
		}
		return nil
	}

	switch fields[0] {
	case "/chats":
		return outbound{Event: domain.CmdGetChatParticipants}, nil
	case "/groups":
		return outbound{Event: domain.CmdGetGroupChatParticipants}, nil
	case "/open":
		if err := need(2); err != nil {
			return outbound{}, err
		}
		return outbound{Event: domain.CmdCreatePrivateChat, Data: domain.CreatePrivateChatCommand{ReceiverEmail: fields[1]}}, nil
	case "/say":
		if err := need(3); err != nil {
			return outbound{}, err
		}
		return outbound{Event: domain.CmdSendPrivateMessage, Data: domain.SendPrivateMessageCommand{ChatID: fields[1], MessageText: rest(2)}}, nil
	case "/history":
		if err := need(2); err != nil {
			return outbound{}, err
		}
		return outbound{Event: domain.CmdGetPrivateChatMessages, Data: domain.GetPrivateChatMessagesCommand{ChatID: fields[1]}}, nil
	case "/group":
		if err := need(3); err != nil {
			return outbound{}, err
		}
		users := lo.Compact(strings.Split(fields[2], ","))
		return outbound{Event: domain.CmdCreateGroupChat, Data: domain.CreateGroupChatCommand{GroupName: fields[1], Users: users}}, nil
	case "/gsay":
		if err := need(3); err != nil {
			return outbound{}, err
		}
		return outbound{Event: domain.CmdSendGroupMessage, Data: domain.SendGroupMessageCommand{ChatID: fields[1], MessageText: rest(2)}}, nil
	case "/ghistory":
		if err := need(2); err != nil {
			return outbound{}, err
		}
		return outbound{Event: domain.CmdGetGroupChatMessages, Data: domain.GetGroupChatMessagesCommand{ChatID: fields[1]}}, nil
	case "/quit":
		return outbound{Event: domain.CmdDisconnect}, nil
	default:
		return outbound{}, fmt.Errorf("unknown command %q, usage:\n%s", fields[0], usage)
	}
}

type printer struct {
	w       io.Writer
	self    string
	colours bool
}

func newPrinter(w io.Writer, self string, colours bool) *printer {
	return &printer{w: w, self: self, colours: colours}
}

func (p *printer) paint(style color.Style, s string) string {
	if !p.colours {
		return s
	}
	return style.Render(s)
}

func (p *printer) help() {
	_, _ = fmt.Fprintln(p.w, p.paint(color.New(color.BgBlack, color.FgGreen), "  ====== connected as "+p.self+" ======"))
	_, _ = fmt.Fprintln(p.w, usage)
}

func (p *printer) warn(s string) {
	_, _ = fmt.Fprintln(p.w, p.paint(color.New(color.FgYellow), s))
}

func (p *printer) render(f inbound) {
	switch f.Event {
	case event.ChatParticipants:
		var list event.PrivateChatList
		if json.Unmarshal(f.Data, &list) == nil {
			p.privateChats(list.PrivateChats)
		}
	case event.GroupChatParticipants:
		var list event.GroupChatList
		if json.Unmarshal(f.Data, &list) == nil {
			p.groupChats(list)
		}
	case event.ReceivePrivateMessage, event.ReceiveGroupMessage:
		var m domain.Message
		if json.Unmarshal(f.Data, &m) == nil {
			p.message(m)
		}
	case event.PrivateChatMessages, event.GroupMessages:
		var history []domain.Message
		if json.Unmarshal(f.Data, &history) == nil {
			lo.ForEach(history, func(m domain.Message, _ int) { p.message(m) })
		}
	case event.UserStatusUpdate:
		var s event.UserStatus
		if json.Unmarshal(f.Data, &s) == nil && s.Email != p.self {
			state := lo.Ternary(s.IsOnline, "online", "offline")
			_, _ = fmt.Fprintln(p.w, p.paint(color.New(color.FgGray), s.Email+" is "+state))
		}
	case event.NewChatCreated:
		var c event.PrivateChatCreated
		if json.Unmarshal(f.Data, &c) == nil {
			_, _ = fmt.Fprintf(p.w, "chat %s with %s\n", c.ID, c.ReceiverEmail)
		}
	case event.GroupChatCreated:
		var g event.GroupCreated
		if json.Unmarshal(f.Data, &g) == nil {
			_, _ = fmt.Fprintf(p.w, "group %s (%s)\n", g.GroupName, g.ID)
		}
	case event.Error:
		var failure event.Failure
		if json.Unmarshal(f.Data, &failure) == nil {
			_, _ = fmt.Fprintln(p.w, p.paint(color.New(color.FgRed), "error: "+failure.Error))
		}
	default:
		_, _ = fmt.Fprintf(p.w, "%s %s\n", f.Event, f.Data)
	}
}

func (p *printer) message(m domain.Message) {
	author := p.paint(color.New(color.FgCyan), m.SenderEmail)
	if m.SenderEmail == p.self {
		author = p.paint(color.New(color.FgGreen), "me")
	}
	_, _ = fmt.Fprintf(p.w, "[%s] %s: %s\n", m.CreatedAt.Local().Format(time.TimeOnly), author, m.Text())
}

func (p *printer) privateChats(chats []event.PrivateChatEntry) {
	table := p.table([]string{"Chat", "With", "Online", "Unread", "Updated"})
	for _, c := range chats {
		table.Append([]string{c.ID, c.ReceiverEmail, strconv.FormatBool(c.IsOnline), strconv.Itoa(c.UnreadCount), c.UpdatedAt.Local().Format(time.DateTime)})
	}
	table.Render()
}

func (p *printer) groupChats(list event.GroupChatList) {
	if len(list.GroupChats) == 0 {
		_, _ = fmt.Fprintln(p.w, list.Message)
		return
	}
	table := p.table([]string{"Chat", "Group", "Admin", "Unread", "Updated"})
	for _, g := range list.GroupChats {
		table.Append([]string{g.ID, g.GroupName, g.AdminEmail, strconv.Itoa(g.UnreadCount), g.UpdatedAt.Local().Format(time.DateTime)})
	}
	table.Render()
}

func (p *printer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}
