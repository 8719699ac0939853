// Package domain contains core concepts of the chat system.
// This file defines Message records and their lifecycle rules.
// A message is created once as sent and may later be marked read in bulk.
package domain

import (
	"time"
)

type MessageType string

const (
	TextMessage  MessageType = "text"
	ImageMessage MessageType = "image"
	VideoMessage MessageType = "video"
)

// Valid reports whether the type is one of the supported kinds.
func (t MessageType) Valid() bool {
	switch t {
	case TextMessage, ImageMessage, VideoMessage:
		return true
	default:
		return false
	}
}

type MessageStatus string

const (
	StatusSent MessageStatus = "sent"
	// StatusDelivered is part of the model but no flow sets it yet.
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// ChatKind separates private and group message streams.
type ChatKind string

const (
	PrivateKind ChatKind = "private"
	GroupKind   ChatKind = "group"
)

// Message is shared by private and group chats.
type Message struct {
	ID          int64         `json:"id"`
	ChatID      string        `json:"chatId"`
	SenderEmail string        `json:"senderEmail"`
	MessageText *string       `json:"messageText"`
	MessageType MessageType   `json:"messageType"`
	MediaURL    *string       `json:"mediaUrl"`
	Status      MessageStatus `json:"status"`
	Language    string        `json:"language,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Text returns the body or an empty string for media-only messages.
func (m Message) Text() string {
	if m.MessageText == nil {
		return ""
	}
	return *m.MessageText
}

// IsUnreadFor tells whether the message still counts as unread for viewer.
func (m Message) IsUnreadFor(viewer string) bool {
	return m.Status == StatusSent && m.SenderEmail != viewer
}

// GroupMessage is a group message rendered with its author's display name.
type GroupMessage struct {
	Message
	SenderName string `json:"senderName"`
}
