package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"george/models"
	ai "george/services/intelligence"
)

// Dispatcher is wired in main before the router starts serving.
var Dispatcher *ai.Dispatcher

// SubmitChatTurn handles POST /api/chat: one guest utterance in, one reply
// out. A missing sessionId starts a fresh session.
func SubmitChatTurn(c *gin.Context) {
	var input models.ChatRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if input.SessionID == "" {
		input.SessionID = uuid.New().String()
	}

	reply := Dispatcher.SubmitTurn(c.Request.Context(), input.SessionID, input.Message)
	c.JSON(http.StatusOK, reply)
}

// GetChatHistory handles GET /api/chat/:sessionID and returns the current
// memory window so the UI can reload a conversation.
func GetChatHistory(c *gin.Context) {
	sessionID := c.Param("sessionID")
	turns, err := Dispatcher.History(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation", "details": err.Error()})
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "turns": turns})
}

// EndChatSession handles DELETE /api/chat/:sessionID, clearing the session's
// memory window, context flags, and any in-progress booking draft.
func EndChatSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	Dispatcher.EndSession(c.Request.Context(), sessionID)
	if Drafts != nil {
		if err := Drafts.Clear(c.Request.Context(), sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear booking draft", "details": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "ended": true})
}
