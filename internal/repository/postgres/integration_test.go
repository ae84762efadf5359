//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adelaidehub/studyhub-server/internal/model"
	repo "github.com/adelaidehub/studyhub-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "studyhub_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/studyhub_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ur *repo.UserRepository, email, studentID string) model.User {
	t.Helper()
	u, err := ur.Create(context.Background(), model.User{
		ID:           uuid.New(),
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		StudentID:    studentID,
		Role:         model.RoleStudent,
		Degree:       "Computer Science",
		Year:         2,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	u := createUser(t, ur, "alice@adelaide.edu.au", "a1700001")

	byEmail, err := ur.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)

	_, err = ur.Create(ctx, model.User{
		ID: uuid.New(), FirstName: "Dup", LastName: "Email",
		Email: u.Email, PasswordHash: "h", StudentID: "a1700002",
		Role: model.RoleStudent, Degree: "Arts", Year: 1,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	require.ErrorIs(t, err, model.ErrEmailTaken)

	_, err = ur.Create(ctx, model.User{
		ID: uuid.New(), FirstName: "Dup", LastName: "Student",
		Email: "other@adelaide.edu.au", PasswordHash: "h", StudentID: u.StudentID,
		Role: model.RoleStudent, Degree: "Arts", Year: 1,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	require.ErrorIs(t, err, model.ErrStudentIDTaken)

	u.FirstName = "Alicia"
	updated, err := ur.UpdateDetails(ctx, u)
	require.NoError(t, err)
	require.Equal(t, "Alicia", updated.FirstName)

	require.NoError(t, ur.UpdatePassword(ctx, u.ID, "$2a$10$newhash"))
	require.ErrorIs(t, ur.UpdatePassword(ctx, uuid.New(), "h"), model.ErrNotFound)
}

func TestResourceRepository_RatingsAndDownloads(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	rr := repo.NewResourceRepository(conn)

	owner := createUser(t, ur, "owner@adelaide.edu.au", "a1700010")
	rater1 := createUser(t, ur, "rater1@adelaide.edu.au", "a1700011")
	rater2 := createUser(t, ur, "rater2@adelaide.edu.au", "a1700012")
	rater3 := createUser(t, ur, "rater3@adelaide.edu.au", "a1700013")

	res, err := rr.Create(ctx, model.Resource{
		ID:          uuid.New(),
		Title:       "Week 3 notes",
		Description: "Graphs and traversals",
		Type:        model.ResourceTypeNotes,
		FileKey:     "resources/week3.pdf",
		CourseID:    uuid.New(),
		OwnerID:     owner.ID,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	require.Nil(t, res.AvgRating)

	res, err = rr.AddRating(ctx, res.ID, model.Rating{RaterID: rater1.ID, Rating: 3, CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NotNil(t, res.AvgRating)
	require.InDelta(t, 3.0, *res.AvgRating, 1e-9)

	res, err = rr.AddRating(ctx, res.ID, model.Rating{RaterID: rater2.ID, Rating: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	require.InDelta(t, 4.0, *res.AvgRating, 1e-9)

	res, err = rr.AddRating(ctx, res.ID, model.Rating{RaterID: rater3.ID, Rating: 4, CreatedAt: time.Now()})
	require.NoError(t, err)
	require.InDelta(t, 4.0, *res.AvgRating, 1e-9)
	require.Len(t, res.Ratings, 3)

	_, err = rr.AddRating(ctx, res.ID, model.Rating{RaterID: rater1.ID, Rating: 1, CreatedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrAlreadyRated)

	// the rejected duplicate must not move the average
	res, err = rr.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.0, *res.AvgRating, 1e-9)

	_, err = rr.AddRating(ctx, uuid.New(), model.Rating{RaterID: rater1.ID, Rating: 3, CreatedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, rr.IncrementDownloads(ctx, res.ID))
	require.NoError(t, rr.IncrementDownloads(ctx, res.ID))
	res, err = rr.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.TotalDownloads)

	byOwner, err := rr.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byOwner, 1)

	require.NoError(t, rr.Delete(ctx, res.ID))
	require.ErrorIs(t, rr.Delete(ctx, res.ID), model.ErrNotFound)
}

func TestResourceRepository_ConcurrentRatings(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	rr := repo.NewResourceRepository(conn)

	owner := createUser(t, ur, "concurrent-owner@adelaide.edu.au", "a1700040")

	res, err := rr.Create(ctx, model.Resource{
		ID:          uuid.New(),
		Title:       "Concurrency notes",
		Description: "Locks and snapshots",
		Type:        model.ResourceTypeNotes,
		FileKey:     "resources/concurrency.pdf",
		CourseID:    uuid.New(),
		OwnerID:     owner.ID,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	const raters = 8
	ratings := make([]int, raters)
	sum := 0
	for i := range ratings {
		ratings[i] = i%5 + 1
		sum += ratings[i]
	}

	var wg sync.WaitGroup
	errs := make(chan error, raters)
	for i := 0; i < raters; i++ {
		rater := createUser(t, ur,
			fmt.Sprintf("concurrent-rater%d@adelaide.edu.au", i),
			fmt.Sprintf("a17000%02d", 41+i))
		wg.Add(1)
		go func(raterID uuid.UUID, rating int) {
			defer wg.Done()
			_, err := rr.AddRating(ctx, res.ID, model.Rating{
				RaterID:   raterID,
				Rating:    rating,
				CreatedAt: time.Now(),
			})
			errs <- err
		}(rater.ID, ratings[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// every committed rating must be reflected in the stored average
	got, err := rr.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, got.Ratings, raters)
	require.NotNil(t, got.AvgRating)
	require.InDelta(t, float64(sum)/float64(raters), *got.AvgRating, 1e-9)
}

func TestStudyGroupRepository_Membership(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	gr := repo.NewStudyGroupRepository(conn)

	creator := createUser(t, ur, "creator@adelaide.edu.au", "a1700020")
	joiner := createUser(t, ur, "joiner@adelaide.edu.au", "a1700021")
	third := createUser(t, ur, "third@adelaide.edu.au", "a1700022")

	group, err := gr.Create(ctx, model.StudyGroup{
		ID:          uuid.New(),
		Name:        "COMP SCI 1102 crew",
		Description: "Weekly revision",
		CourseID:    uuid.New(),
		CreatorID:   creator.ID,
		MaxMembers:  2,
		IsPublic:    true,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 1)
	require.Equal(t, creator.ID, group.Members[0].UserID)
	require.Equal(t, model.GroupRoleLeader, group.Members[0].Role)

	err = gr.Join(ctx, group.ID, model.Member{UserID: joiner.ID, Role: model.GroupRoleMember, JoinedAt: time.Now()})
	require.NoError(t, err)

	err = gr.Join(ctx, group.ID, model.Member{UserID: joiner.ID, Role: model.GroupRoleMember, JoinedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrAlreadyMember)

	err = gr.Join(ctx, group.ID, model.Member{UserID: third.ID, Role: model.GroupRoleMember, JoinedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrCapacityExceeded)

	err = gr.Join(ctx, uuid.New(), model.Member{UserID: third.ID, Role: model.GroupRoleMember, JoinedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrNotFound)

	require.ErrorIs(t, gr.Leave(ctx, group.ID, creator.ID), model.ErrLastLeader)
	require.ErrorIs(t, gr.Leave(ctx, group.ID, third.ID), model.ErrNotMember)
	require.NoError(t, gr.Leave(ctx, group.ID, joiner.ID))

	got, err := gr.GetByID(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
}

func TestStudyGroupRepository_Sessions(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	gr := repo.NewStudyGroupRepository(conn)

	creator := createUser(t, ur, "sessions@adelaide.edu.au", "a1700030")

	group, err := gr.Create(ctx, model.StudyGroup{
		ID:         uuid.New(),
		Name:       "Stats revision",
		CourseID:   uuid.New(),
		CreatorID:  creator.ID,
		MaxMembers: 10,
		IsPublic:   true,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)

	past := model.Session{
		ID:        uuid.New(),
		Title:     "Last week",
		StartTime: time.Now().Add(-48 * time.Hour),
		EndTime:   time.Now().Add(-46 * time.Hour),
		Location:  model.LocationOnline,
		Attendees: []model.Attendee{{UserID: creator.ID, Status: model.AttendeeConfirmed}},
	}
	_, err = gr.AddSession(ctx, group.ID, past)
	require.NoError(t, err)

	future := model.Session{
		ID:          uuid.New(),
		Title:       "Exam prep",
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
		Location:    model.LocationOnline,
		MeetingLink: "https://meet.example.com/abc",
		Attendees:   []model.Attendee{{UserID: creator.ID, Status: model.AttendeeConfirmed}},
	}
	_, err = gr.AddSession(ctx, group.ID, future)
	require.NoError(t, err)

	upcoming, err := gr.UpcomingSessions(ctx, creator.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, future.ID, upcoming[0].ID)
	require.Equal(t, group.ID, upcoming[0].GroupID)
	require.Equal(t, group.Name, upcoming[0].GroupName)

	got, err := gr.GetByID(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, got.Sessions, 2)
	require.Len(t, got.Sessions[0].Attendees, 1)

	require.NoError(t, gr.Delete(ctx, group.ID))
	_, err = gr.GetByID(ctx, group.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}
