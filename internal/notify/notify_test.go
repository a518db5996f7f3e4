package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, n Notification) error {
	return m.Called(ctx, n).Error(0)
}

func TestDispatcher_DeliversQueuedNotifications(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.AnythingOfType("Notification")).Return(nil).Times(3)

	d := NewDispatcher(sender, 10)
	for i := 0; i < 3; i++ {
		d.Notify(Notification{UserID: uuid.New(), Title: "Appointment accepted"})
	}
	d.Close()

	sender.AssertExpectations(t)
}

func TestDispatcher_SenderErrorDoesNotStopWorker(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n Notification) bool { return n.Title == "first" })).
		Return(errors.New("gateway down")).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n Notification) bool { return n.Title == "second" })).
		Return(nil).Once()

	d := NewDispatcher(sender, 10)
	d.Notify(Notification{UserID: uuid.New(), Title: "first"})
	d.Notify(Notification{UserID: uuid.New(), Title: "second"})
	d.Close()

	sender.AssertExpectations(t)
}

type blockingSender struct {
	release chan struct{}
	mu      sync.Mutex
	sent    int
}

func (s *blockingSender) Send(context.Context, Notification) error {
	<-s.release
	s.mu.Lock()
	s.sent++
	s.mu.Unlock()
	return nil
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	d := NewDispatcher(sender, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Notify(Notification{UserID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sender.release)
	d.Close()

	assert.Less(t, sender.sent, 10)
	assert.GreaterOrEqual(t, sender.sent, 1)
}

func TestDispatcher_NotifyAfterCloseIsIgnored(t *testing.T) {
	sender := &mockSender{}
	d := NewDispatcher(sender, 1)
	d.Close()

	d.Notify(Notification{UserID: uuid.New()})
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, "notifications")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	userID := uuid.New()
	pub := NewRedisPublisher(client, "notifications")
	require.NoError(t, pub.Send(ctx, Notification{
		UserID: userID,
		Title:  "Appointment submitted",
		Data:   map[string]string{"status": "pending"},
	}))

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var got Notification
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Appointment submitted", got.Title)
	assert.Equal(t, "pending", got.Data["status"])
}
