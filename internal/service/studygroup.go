package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
)

const maxGroupNameLength = 50

// StudyGroup implements membership and session operations on study groups.
type StudyGroup struct {
	groupStore model.StudyGroupStore
	logger     *logger.Logger
}

// NewStudyGroup creates a new StudyGroup service.
func NewStudyGroup(groupStore model.StudyGroupStore, logger *logger.Logger) *StudyGroup {
	return &StudyGroup{
		groupStore: groupStore,
		logger:     logger,
	}
}

// CreateGroupParams contains parameters to create a study group.
type CreateGroupParams struct {
	CreatorID   uuid.UUID
	Name        string
	Description string
	CourseID    uuid.UUID
	MaxMembers  int
	IsPublic    bool
}

// Create stores a new group. The creator becomes the sole leader member; a
// zero MaxMembers falls back to the default capacity.
func (s *StudyGroup) Create(ctx context.Context, params CreateGroupParams) (model.StudyGroup, error) {
	if params.Name == "" {
		return model.StudyGroup{}, model.NewValidationError("name", "is required")
	}
	if len(params.Name) > maxGroupNameLength {
		return model.StudyGroup{}, model.NewValidationError("name", "cannot be more than 50 characters")
	}
	if params.Description == "" {
		return model.StudyGroup{}, model.NewValidationError("description", "is required")
	}
	if len(params.Description) > maxDescriptionLength {
		return model.StudyGroup{}, model.NewValidationError("description", "cannot be more than 500 characters")
	}
	if params.CourseID == uuid.Nil {
		return model.StudyGroup{}, model.NewValidationError("course", "is required")
	}

	maxMembers := params.MaxMembers
	if maxMembers == 0 {
		maxMembers = model.DefaultMaxMembers
	}
	if maxMembers < 1 {
		return model.StudyGroup{}, model.NewValidationError("maxMembers", "must be at least 1")
	}

	group := model.StudyGroup{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		CourseID:    params.CourseID,
		CreatorID:   params.CreatorID,
		MaxMembers:  maxMembers,
		IsPublic:    params.IsPublic,
		CreatedAt:   time.Now(),
	}

	saved, err := s.groupStore.Create(ctx, group)
	if err != nil {
		return model.StudyGroup{}, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("StudyGroup service: group created",
		"group_id", saved.ID,
		"creator_id", saved.CreatorID)

	return saved, nil
}

// Get returns a single group with members and sessions.
func (s *StudyGroup) Get(ctx context.Context, id uuid.UUID) (model.StudyGroup, error) {
	return s.groupStore.GetByID(ctx, id)
}

// List returns public groups plus private groups the caller belongs to.
func (s *StudyGroup) List(ctx context.Context, callerID uuid.UUID) ([]model.StudyGroup, error) {
	return s.groupStore.List(ctx, callerID)
}

// ListByMember returns groups the user is a member of.
func (s *StudyGroup) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error) {
	return s.groupStore.ListByMember(ctx, userID)
}

// Join adds the user as a plain member.
func (s *StudyGroup) Join(ctx context.Context, groupID, userID uuid.UUID) error {
	err := s.groupStore.Join(ctx, groupID, model.Member{
		UserID:   userID,
		Role:     model.GroupRoleMember,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	s.logger.Info("StudyGroup service: member joined",
		"group_id", groupID,
		"user_id", userID)

	return nil
}

// Leave removes the user's membership. The only leader cannot leave until
// leadership is reassigned.
func (s *StudyGroup) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	if err := s.groupStore.Leave(ctx, groupID, userID); err != nil {
		return err
	}

	s.logger.Info("StudyGroup service: member left",
		"group_id", groupID,
		"user_id", userID)

	return nil
}

// SessionParams contains parameters to schedule a session.
type SessionParams struct {
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Location    model.LocationKind
	MeetingLink string
	Building    string
	Room        string
	Agenda      string
}

// AddSession appends a session to the group. Only members may schedule.
// Overlap with existing sessions is not checked.
func (s *StudyGroup) AddSession(ctx context.Context, groupID, callerID uuid.UUID, params SessionParams) (model.Session, error) {
	group, err := s.groupStore.GetByID(ctx, groupID)
	if err != nil {
		return model.Session{}, err
	}
	if _, ok := group.MemberRole(callerID); !ok {
		return model.Session{}, model.ErrNotMember
	}

	if params.Title == "" {
		return model.Session{}, model.NewValidationError("title", "is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return model.Session{}, model.NewValidationError("time", "start and end times are required")
	}
	if !params.EndTime.After(params.StartTime) {
		return model.Session{}, model.NewValidationError("endTime", "must be after start time")
	}
	switch params.Location {
	case model.LocationOnline:
		if params.MeetingLink == "" {
			return model.Session{}, model.NewValidationError("meetingLink", "is required for online sessions")
		}
	case model.LocationPhysical:
		if params.Building == "" {
			return model.Session{}, model.NewValidationError("building", "is required for physical sessions")
		}
	default:
		return model.Session{}, model.NewValidationError("location", "must be online or physical")
	}

	session := model.Session{
		ID:          uuid.New(),
		Title:       params.Title,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Location:    params.Location,
		MeetingLink: params.MeetingLink,
		Building:    params.Building,
		Room:        params.Room,
		Agenda:      params.Agenda,
		Attendees: []model.Attendee{
			{UserID: callerID, Status: model.AttendeeConfirmed},
		},
	}

	saved, err := s.groupStore.AddSession(ctx, groupID, session)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to add session: %w", err)
	}

	s.logger.Info("StudyGroup service: session scheduled",
		"group_id", groupID,
		"session_id", saved.ID)

	return saved, nil
}

// UpcomingSessions returns future sessions across the user's groups.
func (s *StudyGroup) UpcomingSessions(ctx context.Context, userID uuid.UUID) ([]model.UpcomingSession, error) {
	return s.groupStore.UpcomingSessions(ctx, userID, time.Now())
}

// Delete removes a group. Only a leader may delete.
func (s *StudyGroup) Delete(ctx context.Context, groupID, callerID uuid.UUID) error {
	group, err := s.groupStore.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if role, ok := group.MemberRole(callerID); !ok || role != model.GroupRoleLeader {
		return model.ErrForbidden
	}

	if err := s.groupStore.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	s.logger.Info("StudyGroup service: group deleted",
		"group_id", groupID,
		"caller_id", callerID)

	return nil
}
