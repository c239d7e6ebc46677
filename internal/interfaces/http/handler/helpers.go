package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// getStoreID resolves the store a catalog request operates on. The id comes
// from the store_id query parameter and must be visible to the caller's
// store scope. On failure the response is already written and ok is false.
func getStoreID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("store_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation,
			"Informe a loja (store_id).",
			getRequestID(c),
		))
		return uuid.Nil, false
	}
	storeID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation,
			"Identificador de loja inválido.",
			getRequestID(c),
		))
		return uuid.Nil, false
	}
	if !middleware.RequireStoreVisible(c, storeID) {
		return uuid.Nil, false
	}
	return storeID, true
}

// pathUUID parses a uuid path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
