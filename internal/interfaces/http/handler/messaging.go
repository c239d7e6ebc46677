package handler

import (
	"github.com/gin-gonic/gin"

	messagingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// MessagingHandler handles notification channel configuration endpoints
type MessagingHandler struct {
	BaseHandler
	messagingService *messagingapp.MessagingService
}

// NewMessagingHandler creates a new MessagingHandler
func NewMessagingHandler(messagingService *messagingapp.MessagingService) *MessagingHandler {
	return &MessagingHandler{messagingService: messagingService}
}

// channelFromPath parses and validates the :channel path parameter.
func (h *MessagingHandler) channelFromPath(c *gin.Context) (messaging.Channel, bool) {
	channel := messaging.Channel(c.Param("channel"))
	if !channel.IsValid() {
		h.BadRequest(c, "Canal inválido")
		return "", false
	}
	return channel, true
}

// ListChannels godoc
// @Summary      List channels
// @Description  Every supported channel with its configured/enabled state; credentials are masked
// @Tags         messaging
// @Produce      json
// @Success      200 {object} dto.Response{data=[]messaging.ChannelConfigResponse}
// @Security     BearerAuth
// @Router       /messaging/channels [get]
func (h *MessagingHandler) ListChannels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channels, err := h.messagingService.ListChannels(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, channels)
}

// GetChannel godoc
// @Summary      Channel configuration
// @Tags         messaging
// @Produce      json
// @Param        channel path string true "Channel (whatsapp, telegram)"
// @Success      200 {object} dto.Response{data=messaging.ChannelConfigResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messaging/channels/{channel} [get]
func (h *MessagingHandler) GetChannel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channel, ok := h.channelFromPath(c)
	if !ok {
		return
	}

	config, err := h.messagingService.GetChannel(c.Request.Context(), tenantID, channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, config)
}

// UpdateChannel godoc
// @Summary      Configure a channel
// @Description  Saves credentials, notification triggers and message templates. Credentials are stored encrypted.
// @Tags         messaging
// @Accept       json
// @Produce      json
// @Param        channel path string true "Channel (whatsapp, telegram)"
// @Param        request body messaging.UpdateChannelRequest true "Channel settings"
// @Success      200 {object} dto.Response{data=messaging.ChannelConfigResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messaging/channels/{channel} [put]
func (h *MessagingHandler) UpdateChannel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channel, ok := h.channelFromPath(c)
	if !ok {
		return
	}

	var req messagingapp.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	config, err := h.messagingService.UpdateChannel(c.Request.Context(), tenantID, channel, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, config)
}

// TestSend godoc
// @Summary      Send a test message
// @Description  Delivers a test message through the channel using the stored credentials
// @Tags         messaging
// @Accept       json
// @Produce      json
// @Param        channel path string true "Channel (whatsapp, telegram)"
// @Param        request body messaging.TestSendRequest true "Recipient and message"
// @Success      204 "No Content"
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messaging/channels/{channel}/test [post]
func (h *MessagingHandler) TestSend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channel, ok := h.channelFromPath(c)
	if !ok {
		return
	}

	var req messagingapp.TestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.messagingService.TestSend(c.Request.Context(), tenantID, channel, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// VerifyChannel godoc
// @Summary      Verify channel credentials
// @Description  Checks the stored credentials against the provider and records the verification time
// @Tags         messaging
// @Produce      json
// @Param        channel path string true "Channel (whatsapp, telegram)"
// @Success      200 {object} dto.Response{data=messaging.ChannelConfigResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messaging/channels/{channel}/verify [post]
func (h *MessagingHandler) VerifyChannel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channel, ok := h.channelFromPath(c)
	if !ok {
		return
	}

	config, err := h.messagingService.VerifyChannel(c.Request.Context(), tenantID, channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, config)
}

// DeleteChannel godoc
// @Summary      Remove a channel configuration
// @Tags         messaging
// @Produce      json
// @Param        channel path string true "Channel (whatsapp, telegram)"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messaging/channels/{channel} [delete]
func (h *MessagingHandler) DeleteChannel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	channel, ok := h.channelFromPath(c)
	if !ok {
		return
	}

	if err := h.messagingService.DeleteChannel(c.Request.Context(), tenantID, channel); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
