package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

type userResponse struct {
	ID           uuid.UUID   `json:"id"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	StudentID    string      `json:"studentId"`
	Role         model.Role  `json:"role"`
	Degree       string      `json:"degree"`
	Year         int         `json:"year"`
	Bio          string      `json:"bio,omitempty"`
	ProfileImage string      `json:"profileImage,omitempty"`
	Courses      []uuid.UUID `json:"courses"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func toUserResponse(u model.User) userResponse {
	courses := u.Courses
	if courses == nil {
		courses = []uuid.UUID{}
	}
	return userResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		StudentID:    u.StudentID,
		Role:         u.Role,
		Degree:       u.Degree,
		Year:         u.Year,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		Courses:      courses,
		CreatedAt:    u.CreatedAt,
	}
}

type ratingResponse struct {
	RaterID   uuid.UUID `json:"raterId"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type resourceResponse struct {
	ID             uuid.UUID          `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Type           model.ResourceType `json:"type"`
	CourseID       uuid.UUID          `json:"course"`
	OwnerID        uuid.UUID          `json:"owner"`
	Ratings        []ratingResponse   `json:"ratings"`
	AvgRating      *float64           `json:"avgRating"`
	TotalDownloads int64              `json:"totalDownloads"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func toResourceResponse(r model.Resource) resourceResponse {
	ratings := make([]ratingResponse, 0, len(r.Ratings))
	for _, rating := range r.Ratings {
		ratings = append(ratings, ratingResponse{
			RaterID:   rating.RaterID,
			Rating:    rating.Rating,
			Review:    rating.Review,
			CreatedAt: rating.CreatedAt,
		})
	}
	return resourceResponse{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		CourseID:       r.CourseID,
		OwnerID:        r.OwnerID,
		Ratings:        ratings,
		AvgRating:      r.AvgRating,
		TotalDownloads: r.TotalDownloads,
		CreatedAt:      r.CreatedAt,
	}
}

func toResourceResponses(resources []model.Resource) []resourceResponse {
	out := make([]resourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, toResourceResponse(r))
	}
	return out
}

type memberResponse struct {
	UserID   uuid.UUID       `json:"user"`
	Role     model.GroupRole `json:"role"`
	JoinedAt time.Time       `json:"joinedAt"`
}

type attendeeResponse struct {
	UserID uuid.UUID            `json:"user"`
	Status model.AttendeeStatus `json:"status"`
}

type sessionResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	StartTime   time.Time          `json:"startTime"`
	EndTime     time.Time          `json:"endTime"`
	Location    model.LocationKind `json:"location"`
	MeetingLink string             `json:"meetingLink,omitempty"`
	Building    string             `json:"building,omitempty"`
	Room        string             `json:"room,omitempty"`
	Agenda      string             `json:"agenda,omitempty"`
	Attendees   []attendeeResponse `json:"attendees"`
}

func toSessionResponse(s model.Session) sessionResponse {
	attendees := make([]attendeeResponse, 0, len(s.Attendees))
	for _, a := range s.Attendees {
		attendees = append(attendees, attendeeResponse{UserID: a.UserID, Status: a.Status})
	}
	return sessionResponse{
		ID:          s.ID,
		Title:       s.Title,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Location:    s.Location,
		MeetingLink: s.MeetingLink,
		Building:    s.Building,
		Room:        s.Room,
		Agenda:      s.Agenda,
		Attendees:   attendees,
	}
}

type groupResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CourseID    uuid.UUID         `json:"course"`
	CreatorID   uuid.UUID         `json:"creator"`
	Members     []memberResponse  `json:"members"`
	MaxMembers  int               `json:"maxMembers"`
	IsPublic    bool              `json:"isPublic"`
	Sessions    []sessionResponse `json:"meetingSchedule"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toGroupResponse(g model.StudyGroup) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	sessions := make([]sessionResponse, 0, len(g.Sessions))
	for _, s := range g.Sessions {
		sessions = append(sessions, toSessionResponse(s))
	}
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CourseID:    g.CourseID,
		CreatorID:   g.CreatorID,
		Members:     members,
		MaxMembers:  g.MaxMembers,
		IsPublic:    g.IsPublic,
		Sessions:    sessions,
		CreatedAt:   g.CreatedAt,
	}
}

func toGroupResponses(groups []model.StudyGroup) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out
}

type upcomingSessionResponse struct {
	sessionResponse
	GroupID   uuid.UUID `json:"groupId"`
	GroupName string    `json:"groupName"`
}

func toUpcomingSessionResponses(sessions []model.UpcomingSession) []upcomingSessionResponse {
	out := make([]upcomingSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, upcomingSessionResponse{
			sessionResponse: toSessionResponse(s.Session),
			GroupID:         s.GroupID,
			GroupName:       s.GroupName,
		})
	}
	return out
}
