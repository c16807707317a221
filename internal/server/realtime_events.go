package server

import (
	"context"
	"encoding/json"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventRequestCreated       = "request_created"
	EventRequestStatusChanged = "request_status_changed"
	EventReviewReceived       = "review_received"
)

func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload map[string]interface{}) {
	if s.hub == nil {
		return
	}
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal event", "type", eventType, "error", err)
		return
	}
	// Detached from the request so delivery survives the response.
	s.hub.Deliver(context.WithoutCancel(ctx), userID, string(eventJSON))
}

func userSummary(user *models.User) map[string]interface{} {
	if user == nil {
		return nil
	}
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	}
}

func requestSummary(req *models.ServiceRequest) map[string]interface{} {
	summary := map[string]interface{}{
		"request_id": req.ID,
		"status":     req.Status,
		"requester":  userSummary(req.Requester),
		"provider":   userSummary(req.Provider),
		"at":         time.Now().UTC().Format(time.RFC3339Nano),
	}
	if req.OfferedSkill != nil {
		summary["skill"] = req.OfferedSkill.Name
	}
	return summary
}
