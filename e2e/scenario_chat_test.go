package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type testChatSuite struct {
	BaseSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestPrivateChatFlow() {
	s.Run("Step 0: Server reports SERVING", func() {
		s.WithHealth("Health check", func(ctx context.Context, client healthpb.HealthClient) {
			resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
			s.Require().NoError(err)
			s.Require().Equal(healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
		})
	})

	alice := s.Login(s.Config.AliceEmail)
	bob := s.Login(s.Config.BobEmail)
	text := "hello from e2e"
	var chatID string

	s.Run("Step 1: Live delivery between two sockets", func() {
		s.WithSocket("Bob online", bob, func(bobWS *Socket) {
			bobWS.Emit(domain.CmdSetOnline, s.Config.BobEmail)
			bobWS.Expect(event.UserStatusUpdate, nil)

			s.WithSocket("Alice writes", alice, func(aliceWS *Socket) {
				aliceWS.Emit(domain.CmdSetOnline, s.Config.AliceEmail)
				aliceWS.Emit(domain.CmdCreatePrivateChat, map[string]string{"receiverEmail": s.Config.BobEmail})

				var created event.PrivateChatCreated
				aliceWS.Expect(event.NewChatCreated, &created)
				s.Require().Equal(s.Config.BobEmail, created.ReceiverEmail)
				s.Require().True(created.IsOnline)
				chatID = created.ID

				aliceWS.Emit(domain.CmdSendPrivateMessage, map[string]string{"chatId": chatID, "messageText": text})
			})

			var received domain.Message
			bobWS.Expect(event.ReceivePrivateMessage, &received)
			s.Require().Equal(text, received.Text())
			s.Require().Equal(s.Config.AliceEmail, received.SenderEmail)
		})
	})

	s.Run("Step 2: REST history flips messages to read", func() {
		var history struct {
			Messages []domain.Message `json:"messages"`
		}
		code := s.Call(http.MethodGet, "/lstm/chats/private/"+chatID, bob, nil, &history)
		s.Require().Equal(http.StatusOK, code)
		s.Require().NotEmpty(history.Messages)

		var chats struct {
			PrivateChats []event.PrivateChatEntry `json:"privateChats"`
		}
		s.Require().Equal(http.StatusOK, s.Call(http.MethodGet, "/lstm/chats/private", bob, nil, &chats))
		for _, c := range chats.PrivateChats {
			if c.ID == chatID {
				s.Require().Zero(c.UnreadCount)
			}
		}
	})

	s.Run("Step 3: Impersonation is refused", func() {
		code := s.Call(http.MethodPost, "/lstm/messages/private/message", alice,
			map[string]string{"senderEmail": s.Config.BobEmail, "chatId": chatID, "messageText": "spoof"}, nil)
		s.Require().Equal(http.StatusForbidden, code)
	})
}
