package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BigManDrewskii/greekgpt/models"
	"github.com/BigManDrewskii/greekgpt/repository"
	"github.com/BigManDrewskii/greekgpt/services"
	"github.com/BigManDrewskii/greekgpt/utils"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	chatService      services.ChatService
	chatbotService   services.ChatbotService
	analyticsService services.AnalyticsService
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	paymentRepo      repository.PaymentRepository
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	chatService services.ChatService,
	chatbotService services.ChatbotService,
	analyticsService services.AnalyticsService,
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
) *APIHandler {
	return &APIHandler{
		chatService:      chatService,
		chatbotService:   chatbotService,
		analyticsService: analyticsService,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		paymentRepo:      paymentRepo,
	}
}

// RootHandler returns the API banner.
func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Greek Chatbot API"})
}

// ChatHandler handles incoming chat requests. A failed completion is not an
// HTTP error: the fallback text comes back with status 200 and the original
// error as diagnostic detail.
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var clientReq ClientChatRequest
	if err := c.ShouldBindJSON(&clientReq); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	log.Printf("INFO: Received chat message for chatbot %d (session '%s').", clientReq.ChatbotID, clientReq.SessionID)

	result, err := h.chatService.ProcessMessage(c.Request.Context(), services.ChatRequest{
		ChatbotID: clientReq.ChatbotID,
		UserID:    clientReq.UserID,
		Message:   clientReq.Message,
		SessionID: clientReq.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.SendJSONError(c, http.StatusNotFound, "Chatbot or user not found.", err)
		case errors.Is(err, services.ErrValidation):
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid chat request.", err)
		case errors.Is(err, services.ErrQuotaExceeded):
			utils.SendJSONError(c, http.StatusForbidden, "Monthly message quota exceeded. Please upgrade your subscription.", err)
		default:
			utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		}
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:  result.Response,
		SessionID: result.SessionID,
		ChatbotID: result.ChatbotID,
		Error:     result.Err,
	})
}

// SessionMessagesHandler returns the full ordered history of a session.
func (h *APIHandler) SessionMessagesHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	conversation, err := h.conversationRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Session not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	messages, err := h.messageRepo.ListByConversation(conversation.ID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		response = append(response, MessageResponse{
			Content:   message.Content,
			Role:      message.Role,
			Timestamp: utils.FormatTime(message.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, response)
}

// CreateChatbotHandler creates a chatbot from a type preset plus overrides.
func (h *APIHandler) CreateChatbotHandler(c *gin.Context) {
	var req CreateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	chatbot, err := h.chatbotService.Create(c.Request.Context(), req.OwnerID, req.ChatbotSpec)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid chatbot configuration.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusCreated, chatbot)
}

// GetChatbotHandler returns one chatbot by ID.
func (h *APIHandler) GetChatbotHandler(c *gin.Context) {
	chatbotID, ok := parseUintParam(c, "chatbotID")
	if !ok {
		return
	}

	chatbot, err := h.chatbotService.Get(c.Request.Context(), chatbotID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Chatbot not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, chatbot)
}

// ListChatbotsHandler returns the chatbots owned by a user.
func (h *APIHandler) ListChatbotsHandler(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 64)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'owner_id' must be a positive integer.", err)
		return
	}

	chatbots, err := h.chatbotService.ListByOwner(c.Request.Context(), uint(ownerID))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, chatbots)
}

// UpdateChatbotHandler applies a partial update to a chatbot. Unknown body
// fields are ignored; only the fields of the patch structure are updatable.
func (h *APIHandler) UpdateChatbotHandler(c *gin.Context) {
	chatbotID, ok := parseUintParam(c, "chatbotID")
	if !ok {
		return
	}

	var patch services.ChatbotUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	chatbot, err := h.chatbotService.Update(c.Request.Context(), chatbotID, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Chatbot not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, chatbot)
}

// AnalyticsHandler returns usage counts for a chatbot over a trailing
// window of days (default 30).
func (h *APIHandler) AnalyticsHandler(c *gin.Context) {
	chatbotID, ok := parseUintParam(c, "chatbotID")
	if !ok {
		return
	}

	days := 30
	if daysParam := c.Query("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'days' must be a positive integer.", err)
			return
		}
		days = parsed
	}

	summary, err := h.analyticsService.Summarize(chatbotID, days)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Chatbot not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RegisterUserHandler creates a user account. New accounts start on the
// free tier with the default monthly message allowance.
func (h *APIHandler) RegisterUserHandler(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	if existing, err := h.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		utils.SendJSONError(c, http.StatusConflict, "A user with this email already exists.", nil)
		return
	}

	user := &models.User{
		Email:               req.Email,
		Username:            req.Username,
		FullName:            req.FullName,
		IsActive:            true,
		SubscriptionTier:    "free",
		MonthlyMessageLimit: 100,
	}
	if err := h.userRepo.Create(user); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUserHandler returns one user by ID, quota counters included.
func (h *APIHandler) GetUserHandler(c *gin.Context) {
	userID, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "User not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreatePaymentHandler records a payment intent in pending state.
func (h *APIHandler) CreatePaymentHandler(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	payment := &models.Payment{
		UserID:                req.UserID,
		Amount:                req.Amount,
		Currency:              req.Currency,
		PaymentMethod:         req.PaymentMethod,
		PaymentStatus:         models.PaymentStatusPending,
		StripePaymentIntentID: req.StripePaymentIntentID,
	}
	if payment.Currency == "" {
		payment.Currency = "EUR"
	}
	if err := h.paymentRepo.Create(payment); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// UpdatePaymentStatusHandler moves a payment to completed or failed, as
// reported by the payment provider.
func (h *APIHandler) UpdatePaymentStatusHandler(c *gin.Context) {
	paymentID, ok := parseUintParam(c, "paymentID")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	if err := h.paymentRepo.UpdateStatus(paymentID, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Payment not found.", err)
			return
		}
		utils.SendJSONError(c, http.StatusBadRequest, "Could not update payment status.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": paymentID, "payment_status": req.Status})
}

// ListPaymentsHandler returns a user's payment history, newest first.
func (h *APIHandler) ListPaymentsHandler(c *gin.Context) {
	userID, ok := parseUintParam(c, "userID")
	if !ok {
		return
	}

	payments, err := h.paymentRepo.ListByUser(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Path parameter '"+name+"' must be a positive integer.", err)
		return 0, false
	}
	return uint(value), true
}
