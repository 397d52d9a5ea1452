package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"
)

// MockRepository is a mock implementation of repositories.Repository
type MockRepository[T models.Entity] struct {
	mock.Mock
}

func (m *MockRepository[T]) Create(ctx context.Context, entity *T) (string, error) {
	args := m.Called(ctx, entity)
	return args.String(0), args.Error(1)
}

func (m *MockRepository[T]) Find(ctx context.Context, filter repositories.Filter, limit int) ([]models.Document[T], error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document[T]), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, eventType string, payload any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

func TestCollectionService_List(t *testing.T) {
	mockRepo := new(MockRepository[models.BucketItem])
	service := services.NewCollectionService[models.BucketItem](mockRepo, time.Second, nil)

	expected := []models.Document[models.BucketItem]{
		{ID: "1", Data: models.BucketItem{Title: "Skydive"}},
		{ID: "2", Data: models.BucketItem{Title: "Marathon", Done: true}},
	}
	filter := repositories.Filter{"done": true}

	mockRepo.On("Find", mock.Anything, filter, 100).Return(expected, nil).Once()

	docs, err := service.List(context.Background(), filter, 100)

	assert.NoError(t, err)
	assert.Equal(t, expected, docs)
	mockRepo.AssertExpectations(t)
}

func TestCollectionService_ListAppliesTimeout(t *testing.T) {
	mockRepo := new(MockRepository[models.UseItem])
	service := services.NewCollectionService[models.UseItem](mockRepo, 50*time.Millisecond, nil)

	mockRepo.On("Find", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	}), repositories.Filter(nil), 10).Return([]models.Document[models.UseItem]{}, nil).Once()

	docs, err := service.List(context.Background(), nil, 10)

	assert.NoError(t, err)
	assert.Empty(t, docs)
	mockRepo.AssertExpectations(t)
}

func TestCollectionService_ListError(t *testing.T) {
	mockRepo := new(MockRepository[models.Project])
	service := services.NewCollectionService[models.Project](mockRepo, time.Second, nil)

	mockRepo.On("Find", mock.Anything, repositories.Filter{}, 50).
		Return(nil, repositories.ErrStorageUnavailable).Once()

	docs, err := service.List(context.Background(), repositories.Filter{}, 50)

	assert.ErrorIs(t, err, repositories.ErrStorageUnavailable)
	assert.Nil(t, docs)
	mockRepo.AssertExpectations(t)
}

func TestCollectionService_Create(t *testing.T) {
	mockRepo := new(MockRepository[models.GuestbookEntry])
	service := services.NewCollectionService[models.GuestbookEntry](mockRepo, time.Second, nil)

	entry := &models.GuestbookEntry{Name: "Ada", Message: "hi"}

	mockRepo.On("Create", mock.Anything, entry).Return("abc123", nil).Once()
	id, err := service.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", id)

	mockRepo.On("Create", mock.Anything, entry).Return("", errors.New("disk full")).Once()
	id, err = service.Create(context.Background(), entry)
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, id)

	mockRepo.AssertExpectations(t)
}

func TestCollectionService_FindOne(t *testing.T) {
	mockRepo := new(MockRepository[models.BlogPost])
	service := services.NewCollectionService[models.BlogPost](mockRepo, time.Second, nil)

	post := models.Document[models.BlogPost]{ID: "p1", Data: models.BlogPost{Title: "Hello", Slug: "hello"}}

	mockRepo.On("Find", mock.Anything, repositories.Filter{"slug": "hello"}, 1).
		Return([]models.Document[models.BlogPost]{post}, nil).Once()
	found, err := service.FindOne(context.Background(), repositories.Filter{"slug": "hello"})
	require.NoError(t, err)
	assert.Equal(t, &post, found)

	mockRepo.On("Find", mock.Anything, repositories.Filter{"slug": "missing"}, 1).
		Return([]models.Document[models.BlogPost]{}, nil).Once()
	found, err = service.FindOne(context.Background(), repositories.Filter{"slug": "missing"})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Nil(t, found)

	mockRepo.AssertExpectations(t)
}

func TestContactService_Submit(t *testing.T) {
	mockRepo := new(MockRepository[models.ContactMessage])
	mockMQ := new(MockPublisher)
	messages := services.NewCollectionService[models.ContactMessage](mockRepo, time.Second, nil)
	service := services.NewContactService(messages, mockMQ, nil)

	subject := "Hiring"
	msg := &models.ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "Hello", Subject: &subject}

	mockRepo.On("Create", mock.Anything, msg).Return("m1", nil).Once()
	mockMQ.On("PublishEvent", mock.Anything, services.ContactMessageCreated, services.ContactEvent{
		ID:      "m1",
		Name:    "Grace",
		Email:   "grace@example.com",
		Subject: &subject,
	}).Return(nil).Once()

	id, err := service.Submit(context.Background(), msg)

	assert.NoError(t, err)
	assert.Equal(t, "m1", id)
	mockRepo.AssertExpectations(t)
	mockMQ.AssertExpectations(t)
}

func TestContactService_SubmitPublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockRepository[models.ContactMessage])
	mockMQ := new(MockPublisher)
	messages := services.NewCollectionService[models.ContactMessage](mockRepo, time.Second, nil)
	service := services.NewContactService(messages, mockMQ, nil)

	msg := &models.ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "Hello"}

	mockRepo.On("Create", mock.Anything, msg).Return("m2", nil).Once()
	mockMQ.On("PublishEvent", mock.Anything, services.ContactMessageCreated, mock.Anything).
		Return(errors.New("channel closed")).Once()

	id, err := service.Submit(context.Background(), msg)

	assert.NoError(t, err)
	assert.Equal(t, "m2", id)
	mockMQ.AssertExpectations(t)
}

func TestContactService_SubmitStorageFailureSkipsPublish(t *testing.T) {
	mockRepo := new(MockRepository[models.ContactMessage])
	mockMQ := new(MockPublisher)
	messages := services.NewCollectionService[models.ContactMessage](mockRepo, time.Second, nil)
	service := services.NewContactService(messages, mockMQ, nil)

	msg := &models.ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "Hello"}
	mockRepo.On("Create", mock.Anything, msg).Return("", repositories.ErrStorageUnavailable).Once()

	_, err := service.Submit(context.Background(), msg)

	assert.ErrorIs(t, err, repositories.ErrStorageUnavailable)
	mockMQ.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestContactService_SubmitWithoutPublisher(t *testing.T) {
	mockRepo := new(MockRepository[models.ContactMessage])
	messages := services.NewCollectionService[models.ContactMessage](mockRepo, time.Second, nil)
	service := services.NewContactService(messages, nil, nil)

	msg := &models.ContactMessage{Name: "Grace", Email: "grace@example.com", Message: "Hello"}
	mockRepo.On("Create", mock.Anything, msg).Return("m3", nil).Once()

	id, err := service.Submit(context.Background(), msg)

	assert.NoError(t, err)
	assert.Equal(t, "m3", id)
}
