// Package event defines the outbound realtime events and their payloads.
package event

import (
	"time"

	"github.com/sureshpilli97/ChatCresr-Server/domain"
)

const (
	UserStatusUpdate      = "userStatusUpdate"
	NewChatCreated        = "newChatCreated"
	ReceivePrivateMessage = "receivePrivateMessage"
	GroupChatCreated      = "groupChatCreated"
	ReceiveGroupMessage   = "receiveGroupMessage"
	ChatParticipants      = "chatParticipants"
	GroupChatParticipants = "groupChatParticipants"
	PrivateChatMessages   = "privateChatMessages"
	GroupMessages         = "groupMessages"
	Error                 = "error"
)

// Outbound is one frame pushed to a connection.
type Outbound struct {
	Name    string `json:"event"`
	Payload any    `json:"data"`
}

func New(name string, payload any) Outbound {
	return Outbound{Name: name, Payload: payload}
}

type UserStatus struct {
	Email    string `json:"email"`
	IsOnline bool   `json:"isOnline"`
}

// PrivateChatCreated is rendered per recipient: ReceiverEmail is always the
// other side and IsOnline its live presence.
type PrivateChatCreated struct {
	Message       string    `json:"message"`
	ID            string    `json:"id"`
	ReceiverEmail string    `json:"receiverEmail"`
	UpdatedAt     time.Time `json:"updatedAt"`
	IsOnline      bool      `json:"isOnline"`
	Type          string    `json:"type"`
}

type GroupCreated struct {
	Message   string    `json:"message"`
	ID        string    `json:"id"`
	GroupName string    `json:"groupName"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PrivateChatEntry struct {
	ID            string    `json:"id"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	UnreadCount   int       `json:"unreadCount"`
	IsOnline      bool      `json:"isOnline"`
}

type PrivateChatList struct {
	PrivateChats []PrivateChatEntry `json:"privateChats"`
	Type         string             `json:"type"`
}

type GroupChatList struct {
	Message    string                    `json:"message"`
	GroupChats []domain.GroupChatSummary `json:"groupChats"`
	Type       string                    `json:"type"`
}

type Failure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
