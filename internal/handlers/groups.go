package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvy-app/backend/internal/middleware"
)

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroup creates a group owned by the authenticated user.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groups.Create(c.Request.Context(), req.Name, middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": toGroupResponse(group)})
}

// ListGroups lists the authenticated user's groups.
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// GetGroup retrieves one group.
func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": toGroupResponse(group)})
}

// DeleteGroup removes a group unless its balances are outstanding.
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ListMembers lists a group's members.
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.groups.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]userResponse, 0, len(members))
	for _, u := range members {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// GroupBalances returns the pairwise balance rows and net positions of a
// group.
func (h *Handler) GroupBalances(c *gin.Context) {
	edges, positions, err := h.groups.BalanceSheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": edges, "net_positions": positions})
}

type adjustBalanceRequest struct {
	FriendshipID string  `json:"friendship_id" binding:"required"`
	Delta        float64 `json:"delta" binding:"required"`
}

// AdjustBalance moves a pairwise balance by a delta, e.g. when an expense or
// settlement is recorded.
func (h *Handler) AdjustBalance(c *gin.Context) {
	var req adjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.groups.AdjustBalance(c.Request.Context(), c.Param("id"), req.FriendshipID, req.Delta); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// GroupActivities returns a group's feed entries, newest first.
func (h *Handler) GroupActivities(c *gin.Context) {
	activities, err := h.groups.Activities(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"activities": out})
}
