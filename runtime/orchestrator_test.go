package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/domain/event"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/mocks"
	"github.com/sureshpilli97/ChatCresr-Server/runtime/workers"
	"go.uber.org/mock/gomock"
)

func startOrchestrator(t *testing.T, h harness) *Orchestrator {
	t.Helper()
	orchestrator := NewOrchestrator(slog.Default(), workers.NewSupervisor(slog.Default(), 10*time.Millisecond), h.processor, 16, time.Second)
	done := make(chan struct{})
	go func() {
		_ = orchestrator.Start(context.Background())
		close(done)
	}()
	require.Eventually(t, orchestrator.Running, time.Second, 5*time.Millisecond)
	t.Cleanup(func() {
		orchestrator.Stop()
		<-done
	})
	return orchestrator
}

func TestOrchestrator_Submit_Refused_Before_Start(t *testing.T) {
	req := require.New(t)
	orchestrator := NewOrchestrator(slog.Default(), workers.NewSupervisor(slog.Default(), 0), newHarness(t).processor, 1, time.Second)

	_, err := orchestrator.Submit(context.Background(), "a@mail.com", nil, domain.GetChatParticipantsCommand{})
	req.ErrorIs(err, errors.ErrEngineStopped)
}

func TestOrchestrator_Submit_Roundtrip(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	orchestrator := startOrchestrator(t, h)
	conn := newFakeConn()

	_, err := orchestrator.Submit(context.Background(), "a@mail.com", conn, domain.SetOnlineCommand{})
	req.NoError(err)
	res, err := orchestrator.Submit(context.Background(), "a@mail.com", conn, domain.CreatePrivateChatCommand{ReceiverEmail: "b@mail.com"})
	req.NoError(err)
	req.IsType(event.PrivateChatCreated{}, res)

	// Failures come back to the caller
	_, err = orchestrator.Submit(context.Background(), "a@mail.com", conn, domain.CreatePrivateChatCommand{})
	req.ErrorIs(err, errors.ErrValidation)
}

func TestOrchestrator_Concurrent_Senders_Keep_Order_Per_Sender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	orchestrator := startOrchestrator(t, h)
	connA, connB := newFakeConn(), newFakeConn()

	_, err := orchestrator.Submit(context.Background(), "a@mail.com", connA, domain.SetOnlineCommand{})
	req.NoError(err)
	_, err = orchestrator.Submit(context.Background(), "b@mail.com", connB, domain.SetOnlineCommand{})
	req.NoError(err)
	res, err := orchestrator.Submit(context.Background(), "a@mail.com", connA, domain.CreatePrivateChatCommand{ReceiverEmail: "b@mail.com"})
	req.NoError(err)
	chatID := res.(event.PrivateChatCreated).ID

	// When both sides write at the same time
	const perSender = 20
	var wg sync.WaitGroup
	for _, sender := range []string{"a@mail.com", "b@mail.com"} {
		wg.Add(1)
		go func(sender string) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				_, err := orchestrator.Submit(context.Background(), sender, nil, domain.SendPrivateMessageCommand{ChatID: chatID, MessageText: "ping"})
				require.NoError(t, err)
			}
		}(sender)
	}
	wg.Wait()

	// Then the history holds every message with strictly increasing ids
	res, err = orchestrator.Submit(context.Background(), "a@mail.com", nil, domain.GetPrivateChatMessagesCommand{ChatID: chatID})
	req.NoError(err)
	messages := res.([]domain.Message)
	req.Len(messages, 2*perSender)
	for i := 1; i < len(messages); i++ {
		req.Less(messages[i-1].ID, messages[i].ID)
	}
	// Each side got every message once, own echoes included
	req.Len(connB.received(event.ReceivePrivateMessage), 2*perSender)
}

func TestOrchestrator_Start_Registers_Workers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSupervisor := mocks.NewMockISupervisor(ctrl)
	extra := mocks.NewMockWorker(ctrl)

	orchestrator := NewOrchestrator(slog.Default(), mockSupervisor, newHarness(t).processor, 1, time.Second).Add(extra)

	mockSupervisor.EXPECT().Add(gomock.Any()).Return(mockSupervisor).Times(1)
	mockSupervisor.EXPECT().Add(extra).Return(mockSupervisor).Times(1)
	mockSupervisor.EXPECT().Run(gomock.Any()).Times(1)
	mockSupervisor.EXPECT().Stop().Times(1)

	req.NoError(orchestrator.Start(context.Background()))
	req.False(orchestrator.Running())
	orchestrator.Stop()
	// Stop is idempotent
	orchestrator.Stop()
}
