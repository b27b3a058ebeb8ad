package services

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) IncrementMonthlyUsage(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockAnalyticsRepository is a mock type for the AnalyticsRepository interface
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) RecordEvent(event *models.AnalyticsEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) ListByChatbot(chatbotID uint, limit int) ([]models.AnalyticsEvent, error) {
	args := m.Called(chatbotID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsEvent), args.Error(1)
}

// MockCompletionClient is a mock type for the CompletionClient interface
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) CompletionResult {
	args := m.Called(ctx, model, messages, temperature, maxTokens)
	return args.Get(0).(CompletionResult)
}

type chatServiceFixture struct {
	chatbotRepo   *MockChatbotRepository
	convRepo      *MockConversationRepository
	messageRepo   *MockMessageRepository
	userRepo      *MockUserRepository
	analyticsRepo *MockAnalyticsRepository
	completion    *MockCompletionClient
	service       ChatService
}

func newChatServiceFixture() *chatServiceFixture {
	f := &chatServiceFixture{
		chatbotRepo:   new(MockChatbotRepository),
		convRepo:      new(MockConversationRepository),
		messageRepo:   new(MockMessageRepository),
		userRepo:      new(MockUserRepository),
		analyticsRepo: new(MockAnalyticsRepository),
		completion:    new(MockCompletionClient),
	}
	chatbotService := NewChatbotService(f.chatbotRepo, nil)
	conversationService := NewConversationService(f.convRepo, f.messageRepo)
	f.service = NewChatService(
		chatbotService,
		conversationService,
		f.completion,
		f.messageRepo,
		f.convRepo,
		f.userRepo,
		f.analyticsRepo,
	)
	return f
}

func testChatbot() *models.Chatbot {
	return &models.Chatbot{
		ID:           1,
		Name:         "Bot",
		SystemPrompt: greekSystemPrompts[ChatbotTypeGeneral],
		ModelConfig:  models.ModelConfig{Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 500},
	}
}

func TestChatService_ProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("first message without a session creates one and persists both turns", func(t *testing.T) {
		f := newChatServiceFixture()
		f.chatbotRepo.On("GetByID", uint(1)).Return(testChatbot(), nil)
		f.convRepo.On("Create", mock.AnythingOfType("*models.Conversation")).Run(func(args mock.Arguments) {
			args.Get(0).(*models.Conversation).ID = 20
		}).Return(nil)
		f.messageRepo.On("GetRecent", uint(20), 10).Return([]models.Message{}, nil)
		f.completion.On("Complete", ctx, "gpt-3.5-turbo", mock.Anything, float32(0.7), 500).
			Return(CompletionResult{Text: "Γεια σας!"})

		var saved []models.Message
		f.messageRepo.On("Save", mock.AnythingOfType("*models.Message")).Run(func(args mock.Arguments) {
			saved = append(saved, *args.Get(0).(*models.Message))
		}).Return(nil)
		f.convRepo.On("Touch", uint(20)).Return(nil)
		f.analyticsRepo.On("RecordEvent", mock.AnythingOfType("*models.AnalyticsEvent")).Return(nil)

		result, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 1, Message: "Καλημέρα"})
		assert.NoError(t, err)
		assert.Equal(t, "Γεια σας!", result.Response)
		assert.NotEmpty(t, result.SessionID)
		assert.False(t, result.Fallback)

		assert.Len(t, saved, 2)
		assert.Equal(t, "user", saved[0].Role)
		assert.Equal(t, "Καλημέρα", saved[0].Content)
		assert.Equal(t, "assistant", saved[1].Role)
		assert.Equal(t, "Γεια σας!", saved[1].Content)
		f.userRepo.AssertNotCalled(t, "IncrementMonthlyUsage", mock.Anything)
	})

	t.Run("failed completion returns the fallback and still persists the turn pair", func(t *testing.T) {
		f := newChatServiceFixture()
		f.chatbotRepo.On("GetByID", uint(1)).Return(testChatbot(), nil)
		existing := &models.Conversation{ID: 20, SessionID: "sess-1", ChatbotID: 1}
		f.convRepo.On("GetBySessionID", "sess-1").Return(existing, nil)
		f.messageRepo.On("GetRecent", uint(20), 10).Return([]models.Message{}, nil)
		f.completion.On("Complete", ctx, "gpt-3.5-turbo", mock.Anything, float32(0.7), 500).
			Return(CompletionResult{Text: FallbackResponse, Fallback: true, Err: "rate limited"})

		var saved []models.Message
		f.messageRepo.On("Save", mock.AnythingOfType("*models.Message")).Run(func(args mock.Arguments) {
			saved = append(saved, *args.Get(0).(*models.Message))
		}).Return(nil)
		f.convRepo.On("Touch", uint(20)).Return(nil)
		f.analyticsRepo.On("RecordEvent", mock.AnythingOfType("*models.AnalyticsEvent")).Return(nil)

		result, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 1, Message: "Καλημέρα", SessionID: "sess-1"})
		assert.NoError(t, err)
		assert.Equal(t, FallbackResponse, result.Response)
		assert.True(t, result.Fallback)
		assert.Equal(t, "rate limited", result.Err)
		assert.Equal(t, "sess-1", result.SessionID)

		assert.Len(t, saved, 2)
		assert.Equal(t, FallbackResponse, saved[1].Content)
	})

	t.Run("registered user gets quota checked and incremented", func(t *testing.T) {
		f := newChatServiceFixture()
		f.chatbotRepo.On("GetByID", uint(1)).Return(testChatbot(), nil)
		f.userRepo.On("GetByID", uint(9)).Return(&models.User{
			ID: 9, MonthlyMessageLimit: 100, CurrentMonthMessages: 5,
		}, nil)
		f.convRepo.On("Create", mock.AnythingOfType("*models.Conversation")).Return(nil)
		f.messageRepo.On("GetRecent", mock.Anything, 10).Return([]models.Message{}, nil)
		f.completion.On("Complete", ctx, "gpt-3.5-turbo", mock.Anything, float32(0.7), 500).
			Return(CompletionResult{Text: "ok"})
		f.messageRepo.On("Save", mock.AnythingOfType("*models.Message")).Return(nil)
		f.convRepo.On("Touch", mock.Anything).Return(nil)
		f.userRepo.On("IncrementMonthlyUsage", uint(9)).Return(nil)
		f.analyticsRepo.On("RecordEvent", mock.AnythingOfType("*models.AnalyticsEvent")).Return(nil)

		_, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 1, UserID: 9, Message: "Γεια"})
		assert.NoError(t, err)
		f.userRepo.AssertCalled(t, "IncrementMonthlyUsage", uint(9))
	})

	t.Run("user over quota is rejected before any completion call", func(t *testing.T) {
		f := newChatServiceFixture()
		f.chatbotRepo.On("GetByID", uint(1)).Return(testChatbot(), nil)
		f.userRepo.On("GetByID", uint(9)).Return(&models.User{
			ID: 9, MonthlyMessageLimit: 100, CurrentMonthMessages: 100,
		}, nil)

		_, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 1, UserID: 9, Message: "Γεια"})
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		f.completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.messageRepo.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("missing chatbot returns ErrNotFound", func(t *testing.T) {
		f := newChatServiceFixture()
		f.chatbotRepo.On("GetByID", uint(77)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 77, Message: "Γεια"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty message fails validation", func(t *testing.T) {
		f := newChatServiceFixture()

		_, err := f.service.ProcessMessage(ctx, ChatRequest{ChatbotID: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
