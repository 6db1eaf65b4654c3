package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvy-app/backend/internal/auth"
	"github.com/divvy-app/backend/internal/models"
	"github.com/divvy-app/backend/internal/service"
	"github.com/divvy-app/backend/internal/storage"
)

// respondErr maps service and storage errors to HTTP statuses. Settlement
// vetoes surface as 409 with their human-readable reason.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupUnsettled),
		errors.Is(err, service.ErrMemberUnsettled),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotInvitee):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

type groupResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatorID string `json:"creator_id"`
	CreatedAt int64  `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{ID: g.ID, Name: g.Name, CreatorID: g.CreatorID, CreatedAt: g.CreatedAt}
}

type membershipResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id"`
	AddedByID string `json:"added_by_id"`
	CreatedAt int64  `json:"created_at"`
}

func toMembershipResponse(m *models.Membership) membershipResponse {
	return membershipResponse{ID: m.ID, GroupID: m.GroupID, UserID: m.UserID, AddedByID: m.AddedByID, CreatedAt: m.CreatedAt}
}

type invitationResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	UserID      string `json:"user_id"`
	InvitedByID string `json:"invited_by_id"`
	CreatedAt   int64  `json:"created_at"`
}

func toInvitationResponse(inv *models.PendingInvitation) invitationResponse {
	return invitationResponse{ID: inv.ID, GroupID: inv.GroupID, UserID: inv.UserID, InvitedByID: inv.InvitedByID, CreatedAt: inv.CreatedAt}
}

type friendshipResponse struct {
	ID        string `json:"id"`
	UserAID   string `json:"user_a_id"`
	UserBID   string `json:"user_b_id"`
	CreatedAt int64  `json:"created_at"`
}

func toFriendshipResponse(f *models.Friendship) friendshipResponse {
	return friendshipResponse{ID: f.ID, UserAID: f.UserAID, UserBID: f.UserBID, CreatedAt: f.CreatedAt}
}

type activityResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	GroupID      string         `json:"group_id,omitempty"`
	RecipientIDs []string       `json:"recipient_ids"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    int64          `json:"created_at"`
}

func toActivityResponse(a *models.Activity) activityResponse {
	return activityResponse{
		ID:           a.ID,
		Type:         a.Type,
		GroupID:      a.GroupID,
		RecipientIDs: a.RecipientIDs,
		Metadata:     a.Metadata,
		CreatedAt:    a.CreatedAt,
	}
}
