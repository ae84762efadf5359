package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/api/http/middleware"
	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
	"github.com/adelaidehub/studyhub-server/internal/service"
)

// StudyGroupService defines membership and session operations on study groups.
type StudyGroupService interface {
	Create(ctx context.Context, params service.CreateGroupParams) (model.StudyGroup, error)
	Get(ctx context.Context, id uuid.UUID) (model.StudyGroup, error)
	List(ctx context.Context, callerID uuid.UUID) ([]model.StudyGroup, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error)
	Join(ctx context.Context, groupID, userID uuid.UUID) error
	Leave(ctx context.Context, groupID, userID uuid.UUID) error
	AddSession(ctx context.Context, groupID, callerID uuid.UUID, params service.SessionParams) (model.Session, error)
	UpcomingSessions(ctx context.Context, userID uuid.UUID) ([]model.UpcomingSession, error)
	Delete(ctx context.Context, groupID, callerID uuid.UUID) error
}

// StudyGroup handles HTTP endpoints for study groups.
type StudyGroup struct {
	groupService StudyGroupService
	logger       *logger.Logger
}

// NewStudyGroup creates a new StudyGroup handler.
func NewStudyGroup(groupService StudyGroupService, logger *logger.Logger) *StudyGroup {
	return &StudyGroup{
		groupService: groupService,
		logger:       logger,
	}
}

// List returns public groups plus private groups the caller belongs to.
func (h *StudyGroup) List(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	groups, err := h.groupService.List(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(groups),
		"data":    toGroupResponses(groups),
	})
}

// ListMine returns groups the caller is a member of.
func (h *StudyGroup) ListMine(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	groups, err := h.groupService.ListByMember(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(groups),
		"data":    toGroupResponses(groups),
	})
}

// Get returns a single group with members and sessions.
func (h *StudyGroup) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toGroupResponse(group),
	})
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Course      string `json:"course" binding:"required"`
	MaxMembers  int    `json:"maxMembers"`
	IsPublic    *bool  `json:"isPublic"`
}

// Create stores a new group with the caller as its sole leader.
func (h *StudyGroup) Create(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	courseID, err := uuid.Parse(req.Course)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid course id")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	group, err := h.groupService.Create(c.Request.Context(), service.CreateGroupParams{
		CreatorID:   user.ID,
		Name:        req.Name,
		Description: req.Description,
		CourseID:    courseID,
		MaxMembers:  req.MaxMembers,
		IsPublic:    isPublic,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    toGroupResponse(group),
	})
}

// Join adds the caller to the group as a plain member.
func (h *StudyGroup) Join(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.groupService.Join(c.Request.Context(), id, user.ID); err != nil {
		handleError(c, err)
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toGroupResponse(group),
	})
}

// Leave removes the caller's membership.
func (h *StudyGroup) Leave(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.groupService.Leave(c.Request.Context(), id, user.ID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

type sessionRequest struct {
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	MeetingLink string    `json:"meetingLink"`
	Building    string    `json:"building"`
	Room        string    `json:"room"`
	Agenda      string    `json:"agenda"`
}

// AddSession schedules a session in the group. Only members may schedule.
func (h *StudyGroup) AddSession(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.groupService.AddSession(c.Request.Context(), id, user.ID, service.SessionParams{
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    model.LocationKind(req.Location),
		MeetingLink: req.MeetingLink,
		Building:    req.Building,
		Room:        req.Room,
		Agenda:      req.Agenda,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    toSessionResponse(session),
	})
}

// Upcoming returns future sessions across the caller's groups.
func (h *StudyGroup) Upcoming(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	sessions, err := h.groupService.UpcomingSessions(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(sessions),
		"data":    toUpcomingSessionResponses(sessions),
	})
}

// Delete removes a group. Only a leader may delete.
func (h *StudyGroup) Delete(c *gin.Context) {
	user, _ := middleware.UserFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), id, user.ID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}
