// Package handlers exposes the JSON API over the use-case services.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/divvy-app/backend/internal/auth"
	"github.com/divvy-app/backend/internal/middleware"
	"github.com/divvy-app/backend/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	auth        *auth.Service
	groups      *service.GroupService
	memberships *service.MembershipService
	invitations *service.InvitationService
	friends     *service.FriendshipService
}

// New creates a Handler over the given services.
func New(authSvc *auth.Service, groups *service.GroupService, memberships *service.MembershipService, invitations *service.InvitationService, friends *service.FriendshipService) *Handler {
	return &Handler{
		auth:        authSvc,
		groups:      groups,
		memberships: memberships,
		invitations: invitations,
		friends:     friends,
	}
}

// Register mounts all routes on the engine. Everything under /api except the
// auth endpoints requires a bearer token.
func (h *Handler) Register(r *gin.Engine, tokens *auth.JWTManager) {
	api := r.Group("/api")

	api.POST("/auth/register", h.RegisterUser)
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(tokens))

	authed.GET("/friends", h.ListFriends)
	authed.GET("/groups", h.ListGroups)
	authed.POST("/groups", h.CreateGroup)
	authed.GET("/groups/:id", h.GetGroup)
	authed.DELETE("/groups/:id", h.DeleteGroup)
	authed.GET("/groups/:id/members", h.ListMembers)
	authed.POST("/groups/:id/members", h.AddMember)
	authed.DELETE("/groups/:id/members/:userID", h.RemoveMember)
	authed.GET("/groups/:id/balances", h.GroupBalances)
	authed.POST("/groups/:id/balances/adjust", h.AdjustBalance)
	authed.GET("/groups/:id/activities", h.GroupActivities)
	authed.POST("/groups/:id/invitations", h.Invite)
	authed.POST("/invitations/:id/accept", h.AcceptInvitation)
	authed.DELETE("/invitations/:id", h.DeclineInvitation)
}
