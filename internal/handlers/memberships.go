package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvy-app/backend/internal/middleware"
)

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddMember joins a user to a group on behalf of the authenticated user.
func (h *Handler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.memberships.AddMember(c.Request.Context(), c.Param("id"), req.UserID, middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"membership": toMembershipResponse(m)})
}

// RemoveMember removes a user from a group unless their balances are
// outstanding.
func (h *Handler) RemoveMember(c *gin.Context) {
	err := h.memberships.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userID"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type inviteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Invite creates a pending invitation to a group.
func (h *Handler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.invitations.Invite(c.Request.Context(), c.Param("id"), req.UserID, middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": toInvitationResponse(inv)})
}

// AcceptInvitation turns the authenticated user's invitation into a
// membership.
func (h *Handler) AcceptInvitation(c *gin.Context) {
	m, err := h.invitations.Accept(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"membership": toMembershipResponse(m)})
}

// ListFriends lists the authenticated user's friendships.
func (h *Handler) ListFriends(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]friendshipResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, toFriendshipResponse(f))
	}
	c.JSON(http.StatusOK, gin.H{"friends": out})
}

// DeclineInvitation removes the authenticated user's invitation.
func (h *Handler) DeclineInvitation(c *gin.Context) {
	err := h.invitations.Decline(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
