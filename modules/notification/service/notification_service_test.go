package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meetgrid/core/mail"
	"meetgrid/core/params"
	"meetgrid/modules/notification/dto"
	"meetgrid/modules/notification/entity"
	"meetgrid/modules/notification/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []mail.Message
	fail  map[string]bool
	delay time.Duration
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newService(t *testing.T, mailer mail.Mailer) (*NotificationService, *repository.MemoryNotificationRepository) {
	t.Helper()
	repo := repository.NewMemoryNotificationRepository()
	svc := NewNotificationService(repo, mailer)
	clock := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo
}

func queue(t *testing.T, svc *NotificationService, to string) {
	t.Helper()
	require.NoError(t, svc.Create(context.Background(), &dto.CreateNotificationRequest{
		Recipient: to,
		Subject:   "You're invited",
		Body:      "Join us",
		Type:      entity.TypeInvite,
	}))
}

func listAll(t *testing.T, svc *NotificationService, status string) []entity.Notification {
	t.Helper()
	page, appErr := svc.List(context.Background(), params.QueryParams{PageNumber: 1, PageSize: 100, Status: status})
	require.Nil(t, appErr)
	return page.Items
}

func TestDispatchPendingSends(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newService(t, mailer)
	queue(t, svc, "a@example.com")
	queue(t, svc, "b@example.com")

	result, err := svc.DispatchPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, &dto.DispatchResult{Sent: 2}, result)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "a@example.com", mailer.sent[0].To)
	assert.Equal(t, "Join us", mailer.sent[0].PlainText)

	sent := listAll(t, svc, string(entity.NotificationStatusSent))
	assert.Len(t, sent, 2)
	for _, n := range sent {
		assert.NotNil(t, n.SentAt)
	}

	result, err = svc.DispatchPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, &dto.DispatchResult{}, result)
}

func TestDispatchPendingRetriesThenFails(t *testing.T) {
	mailer := &fakeMailer{fail: map[string]bool{"bad@example.com": true}}
	svc, _ := newService(t, mailer)
	queue(t, svc, "bad@example.com")

	for i := 1; i < 5; i++ {
		result, err := svc.DispatchPending(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Retrying, "attempt %d", i)
	}

	result, err := svc.DispatchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	failed := listAll(t, svc, string(entity.NotificationStatusFailed))
	require.Len(t, failed, 1)
	assert.Equal(t, 5, failed[0].Attempts)
	assert.Equal(t, "mailbox unavailable", failed[0].LastError)

	result, err = svc.DispatchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, &dto.DispatchResult{}, result)
}

func TestDispatchPendingRespectsLimit(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newService(t, mailer)
	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		queue(t, svc, to)
	}

	result, err := svc.DispatchPending(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Len(t, listAll(t, svc, string(entity.NotificationStatusPending)), 1)
}

func TestDispatchPendingConcurrentPassesSendOnce(t *testing.T) {
	mailer := &fakeMailer{delay: 20 * time.Millisecond}
	svc, _ := newService(t, mailer)
	svc.now = time.Now
	queue(t, svc, "a@example.com")
	queue(t, svc, "b@example.com")

	var wg sync.WaitGroup
	results := make([]*dto.DispatchResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.DispatchPending(context.Background(), 10)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		if r != nil {
			total += r.Sent
		}
	}
	assert.Equal(t, 2, total)
	assert.Len(t, mailer.sent, 2)
	assert.Len(t, listAll(t, svc, string(entity.NotificationStatusSent)), 2)
}

func TestDispatchPendingFailureReturnsToPending(t *testing.T) {
	mailer := &fakeMailer{fail: map[string]bool{"bad@example.com": true}}
	svc, _ := newService(t, mailer)
	queue(t, svc, "bad@example.com")

	_, err := svc.DispatchPending(context.Background(), 10)
	require.NoError(t, err)

	pending := listAll(t, svc, string(entity.NotificationStatusPending))
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Empty(t, listAll(t, svc, string(entity.NotificationStatusSending)))
}
