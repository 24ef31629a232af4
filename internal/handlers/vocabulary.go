package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verba-app/verba-backend/internal/requestdata"
	"github.com/verba-app/verba-backend/internal/services"
)

type VocabularyHandler struct {
	vocabulary services.VocabularyService
}

func NewVocabularyHandler(vocabulary services.VocabularyService) *VocabularyHandler {
	return &VocabularyHandler{vocabulary: vocabulary}
}

func (vh *VocabularyHandler) Generate(c *gin.Context) {
	var req services.GenerateVocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	userID := requestdata.UserID(c.Request.Context())

	entry, err := vh.vocabulary.GenerateContent(c.Request.Context(), userID, req)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "generation_failed", err)
		return
	}
	RespondOK(c, gin.H{"entry": entry})
}

func (vh *VocabularyHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())

	entries, err := vh.vocabulary.ListEntries(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}
