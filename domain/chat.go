// Package domain contains core concepts of the chat system.
// This file defines private and group chats and their participants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"
)

// PrivateChat links exactly two identities.
// Sender and receiver keep the creation direction, the pair itself is unordered.
type PrivateChat struct {
	ID            string    `json:"id"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Counterpart returns the other participant from the point of view of identity.
func (c PrivateChat) Counterpart(identity string) string {
	if c.SenderEmail == identity {
		return c.ReceiverEmail
	}
	return c.SenderEmail
}

// Has reports whether identity is one of the two participants.
func (c PrivateChat) Has(identity string) bool {
	return c.SenderEmail == identity || c.ReceiverEmail == identity
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// GroupChat has one admin and an immutable member list.
type GroupChat struct {
	ID         string    `json:"id"`
	GroupName  string    `json:"groupName"`
	AdminEmail string    `json:"adminEmail"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type GroupParticipant struct {
	ChatID    string    `json:"chatId"`
	UserEmail string    `json:"userEmail"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PrivateChatSummary is a private chat seen by one of its participants.
type PrivateChatSummary struct {
	PrivateChat
	Counterpart string `json:"-"`
	UnreadCount int    `json:"unreadCount"`
}

// GroupChatSummary is a group chat seen by one of its participants.
type GroupChatSummary struct {
	GroupChat
	UnreadCount int `json:"unreadCount"`
}
