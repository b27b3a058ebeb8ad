package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
)

func TestAnalyticsService_Summarize(t *testing.T) {
	chatbot := &models.Chatbot{ID: 1, Name: "Bot"}

	t.Run("zero conversations yields a zero average, not an error", func(t *testing.T) {
		mockChatbotRepo := new(MockChatbotRepository)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)
		service := NewAnalyticsService(mockChatbotRepo, mockConvRepo, mockMsgRepo)

		mockChatbotRepo.On("GetByID", uint(1)).Return(chatbot, nil)
		mockConvRepo.On("ListByChatbotSince", uint(1), mock.AnythingOfType("time.Time")).Return([]models.Conversation{}, nil)

		summary, err := service.Summarize(1, 30)
		assert.NoError(t, err)
		assert.Equal(t, 0, summary.ConversationCount)
		assert.Equal(t, int64(0), summary.MessageCount)
		assert.Equal(t, float64(0), summary.AverageMessagesPerConversation)
		assert.Equal(t, 30, summary.PeriodDays)
	})

	t.Run("counts conversations and messages in the window", func(t *testing.T) {
		mockChatbotRepo := new(MockChatbotRepository)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)
		service := NewAnalyticsService(mockChatbotRepo, mockConvRepo, mockMsgRepo)

		mockChatbotRepo.On("GetByID", uint(1)).Return(chatbot, nil)
		mockConvRepo.On("ListByChatbotSince", uint(1), mock.AnythingOfType("time.Time")).Return([]models.Conversation{
			{ID: 11, ChatbotID: 1},
			{ID: 12, ChatbotID: 1},
		}, nil)
		mockMsgRepo.On("CountByConversation", uint(11)).Return(int64(6), nil)
		mockMsgRepo.On("CountByConversation", uint(12)).Return(int64(2), nil)

		summary, err := service.Summarize(1, 7)
		assert.NoError(t, err)
		assert.Equal(t, 2, summary.ConversationCount)
		assert.Equal(t, int64(8), summary.MessageCount)
		assert.Equal(t, float64(4), summary.AverageMessagesPerConversation)
		assert.Equal(t, 7, summary.PeriodDays)
	})

	t.Run("non-positive day windows default to 30", func(t *testing.T) {
		mockChatbotRepo := new(MockChatbotRepository)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)
		service := NewAnalyticsService(mockChatbotRepo, mockConvRepo, mockMsgRepo)

		mockChatbotRepo.On("GetByID", uint(1)).Return(chatbot, nil)
		mockConvRepo.On("ListByChatbotSince", uint(1), mock.AnythingOfType("time.Time")).Return([]models.Conversation{}, nil)

		summary, err := service.Summarize(1, 0)
		assert.NoError(t, err)
		assert.Equal(t, 30, summary.PeriodDays)
	})

	t.Run("missing chatbot returns ErrNotFound", func(t *testing.T) {
		mockChatbotRepo := new(MockChatbotRepository)
		mockConvRepo := new(MockConversationRepository)
		mockMsgRepo := new(MockMessageRepository)
		service := NewAnalyticsService(mockChatbotRepo, mockConvRepo, mockMsgRepo)

		mockChatbotRepo.On("GetByID", uint(42)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Summarize(42, 30)
		assert.ErrorIs(t, err, ErrNotFound)
		mockConvRepo.AssertNotCalled(t, "ListByChatbotSince", mock.Anything, mock.Anything)
	})
}
