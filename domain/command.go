package domain

// Command is an inbound request processed by the engine.
// Name matches the realtime event that carries it.
type Command interface {
	Name() string
}

const (
	CmdSetOnline                = "setOnline"
	CmdCreatePrivateChat        = "createPrivateChat"
	CmdSendPrivateMessage       = "sendPrivateMessage"
	CmdCreateGroupChat          = "createGroupChat"
	CmdSendGroupMessage         = "sendGroupMessage"
	CmdGetChatParticipants      = "getChatParticipants"
	CmdGetGroupChatParticipants = "getGroupChatParticipants"
	CmdGetPrivateChatMessages   = "getPrivateChatMessages"
	CmdGetGroupChatMessages     = "getGroupChatMessages"
	CmdDisconnect               = "disconnect"
)

type SetOnlineCommand struct {
	Email string `json:"email"`
}

func (SetOnlineCommand) Name() string { return CmdSetOnline }

type CreatePrivateChatCommand struct {
	SenderEmail   string `json:"senderEmail"`
	ReceiverEmail string `json:"receiverEmail"`
}

func (CreatePrivateChatCommand) Name() string { return CmdCreatePrivateChat }

type SendPrivateMessageCommand struct {
	SenderEmail string      `json:"senderEmail"`
	ChatID      string      `json:"chatId"`
	MessageText string      `json:"messageText"`
	MessageType MessageType `json:"messageType"`
	MediaURL    string      `json:"mediaUrl"`
}

func (SendPrivateMessageCommand) Name() string { return CmdSendPrivateMessage }

type CreateGroupChatCommand struct {
	AdminEmail string   `json:"adminEmail"`
	GroupName  string   `json:"groupName"`
	Users      []string `json:"users"`
}

func (CreateGroupChatCommand) Name() string { return CmdCreateGroupChat }

type SendGroupMessageCommand struct {
	ChatID      string      `json:"chatId"`
	SenderEmail string      `json:"senderEmail"`
	MessageText string      `json:"messageText"`
	MessageType MessageType `json:"messageType"`
	MediaURL    string      `json:"mediaUrl"`
}

func (SendGroupMessageCommand) Name() string { return CmdSendGroupMessage }

type GetChatParticipantsCommand struct {
	UserEmail string `json:"userEmail"`
}

func (GetChatParticipantsCommand) Name() string { return CmdGetChatParticipants }

type GetGroupChatParticipantsCommand struct {
	UserEmail string `json:"userEmail"`
}

func (GetGroupChatParticipantsCommand) Name() string { return CmdGetGroupChatParticipants }

type GetPrivateChatMessagesCommand struct {
	ChatID string `json:"chatId"`
	Email  string `json:"email"`
}

func (GetPrivateChatMessagesCommand) Name() string { return CmdGetPrivateChatMessages }

type GetGroupChatMessagesCommand struct {
	ChatID string `json:"chatId"`
	Email  string `json:"email"`
}

func (GetGroupChatMessagesCommand) Name() string { return CmdGetGroupChatMessages }

// DisconnectCommand is emitted by the transport when a connection closes.
type DisconnectCommand struct{}

func (DisconnectCommand) Name() string { return CmdDisconnect }
