package handler

import (
	catalogapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// MediaHandler handles product media upload endpoints
type MediaHandler struct {
	BaseHandler
	mediaService *catalogapp.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *catalogapp.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// PresignUpload godoc
// @Summary      Presign a media upload
// @Description  Issue a presigned S3 PUT URL for a product image or video. The client
// @Description  uploads directly to storage and then confirms the media.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request body catalog.PresignUploadRequest true "Upload descriptor"
// @Success      201 {object} dto.Response{data=catalog.PresignUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/presign [post]
func (h *MediaHandler) PresignUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req catalogapp.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var uploadedBy *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		uploadedBy = &userID
	}

	presigned, err := h.mediaService.PresignUpload(c.Request.Context(), tenantID, req, uploadedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, presigned)
}

// ConfirmUpload godoc
// @Summary      Confirm a media upload
// @Description  Mark a presigned upload as completed and attach it to the product
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id}/confirm [post]
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	mediaID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de mídia inválido")
		return
	}

	media, err := h.mediaService.ConfirmUpload(c.Request.Context(), tenantID, mediaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, media)
}

// ListByProduct godoc
// @Summary      List media of a product
// @Tags         media
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalog.MediaResponse}
// @Security     BearerAuth
// @Router       /products/{id}/media [get]
func (h *MediaHandler) ListByProduct(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	media, err := h.mediaService.ListByProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, media)
}

// SetCover godoc
// @Summary      Set product cover image
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.MediaResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id}/cover [post]
func (h *MediaHandler) SetCover(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	mediaID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de mídia inválido")
		return
	}

	media, err := h.mediaService.SetCover(c.Request.Context(), tenantID, mediaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, media)
}

// Reorder godoc
// @Summary      Reorder product media
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.ReorderMediaRequest true "Full ordered media id list"
// @Success      200 {object} dto.Response{data=[]catalog.MediaResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/media/reorder [post]
func (h *MediaHandler) Reorder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	var req catalogapp.ReorderMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	media, err := h.mediaService.Reorder(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, media)
}

// Delete godoc
// @Summary      Delete a media file
// @Description  Remove the media record and the stored object
// @Tags         media
// @Produce      json
// @Param        id path string true "Media ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	mediaID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de mídia inválido")
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), tenantID, mediaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
