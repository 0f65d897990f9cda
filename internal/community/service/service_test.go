package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	applicationRepository "github.com/festy23/bookclub/internal/application/repository"
	"github.com/festy23/bookclub/internal/community/model"
	"github.com/festy23/bookclub/internal/community/repository"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	membershipRepository "github.com/festy23/bookclub/internal/membership/repository"
	"github.com/festy23/bookclub/internal/metrics"
	teampostModel "github.com/festy23/bookclub/internal/teampost/model"
	teampostRepository "github.com/festy23/bookclub/internal/teampost/repository"
	"github.com/festy23/bookclub/internal/testutil"
	userModel "github.com/festy23/bookclub/internal/user/model"
	userRepository "github.com/festy23/bookclub/internal/user/repository"
)

type recorderSpy struct {
	mu        sync.Mutex
	teardowns []string
}

func (r *recorderSpy) ApplicationEvent(string) {}

func (r *recorderSpy) TeardownEvent(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardowns = append(r.teardowns, result)
}

var _ metrics.Recorder = (*recorderSpy)(nil)

type fixture struct {
	db       *gorm.DB
	svc      Service
	recorder *recorderSpy
	logger   *zap.SugaredLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zap.NewNop().Sugar()
	recorder := &recorderSpy{}
	svc := New(repository.New(db, logger), userRepository.New(db, logger), db, recorder, logger)
	return &fixture{db: db, svc: svc, recorder: recorder, logger: logger}
}

func (f *fixture) create(t *testing.T, leaderID int64, capacity int) *model.CreateCommunityResponse {
	t.Helper()
	resp, err := f.svc.CreateCommunity(context.Background(), leaderID, &model.CreateCommunityRequest{
		ISBN:       "9780441013593",
		Title:      "Dune",
		Content:    "Reading Dune together",
		MaxMembers: capacity,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) join(t *testing.T, communityID, userID int64) {
	t.Helper()
	_, err := membershipRepository.New(f.db, f.logger).Add(context.Background(), communityID, userID, membershipModel.RoleMember)
	require.NoError(t, err)
}

func TestService_CreateCommunity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")

	resp := f.create(t, leader, 4)
	assert.NotZero(t, resp.CommunityID)
	assert.NotZero(t, resp.PostID)

	got, err := f.svc.GetCommunity(ctx, resp.CommunityID)
	require.NoError(t, err)
	assert.Equal(t, model.TeamRecruiting, got.Status)
	assert.Equal(t, "leader", got.LeaderNickname)
	assert.Equal(t, leader, got.LeaderID)
	assert.Equal(t, int64(1), got.MemberCount)
	assert.Equal(t, model.RecruitmentOpen, *got.RecruitmentStatus)

	members, err := f.svc.ListMembers(ctx, resp.CommunityID, leader)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, membershipModel.RoleLeader, members[0].Role)
}

func TestService_CreateCommunity_CapacityOneIsFullAtOnce(t *testing.T) {
	f := newFixture(t)
	leader := testutil.SeedUser(t, f.db, "leader")

	resp := f.create(t, leader, 1)

	got, err := f.svc.GetCommunity(context.Background(), resp.CommunityID)
	require.NoError(t, err)
	assert.Equal(t, model.TeamActive, got.Status)
	assert.Equal(t, model.RecruitmentClosed, *got.RecruitmentStatus)
}

func TestService_CreateCommunity_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")

	tests := []struct {
		name    string
		userID  int64
		req     *model.CreateCommunityRequest
		wantErr error
	}{
		{
			name:    "blank title",
			userID:  leader,
			req:     &model.CreateCommunityRequest{Title: "   ", MaxMembers: 3},
			wantErr: model.ErrInvalidTitle,
		},
		{
			name:    "zero capacity",
			userID:  leader,
			req:     &model.CreateCommunityRequest{Title: "Dune", MaxMembers: 0},
			wantErr: model.ErrInvalidCapacity,
		},
		{
			name:    "unknown user",
			userID:  leader + 100,
			req:     &model.CreateCommunityRequest{Title: "Dune", MaxMembers: 3},
			wantErr: userModel.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateCommunity(ctx, tt.userID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, testutil.Count(t, f.db, "teams", "1 = 1"))
}

func TestService_ListMembers_NonMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	outsider := testutil.SeedUser(t, f.db, "outsider")
	resp := f.create(t, leader, 4)

	_, err := f.svc.ListMembers(ctx, resp.CommunityID, outsider)
	assert.ErrorIs(t, err, membershipModel.ErrNotMember)

	_, err = f.svc.ListMembers(ctx, resp.CommunityID+100, leader)
	assert.ErrorIs(t, err, model.ErrCommunityNotFound)
}

func TestService_UpdateRecruitment(t *testing.T) {
	ctx := context.Background()

	t.Run("leader edits title and capacity", func(t *testing.T) {
		f := newFixture(t)
		leader := testutil.SeedUser(t, f.db, "leader")
		resp := f.create(t, leader, 4)

		title := "Dune Messiah"
		capacity := 6
		got, err := f.svc.UpdateRecruitment(ctx, resp.CommunityID, leader, &model.UpdateRecruitmentRequest{
			Title:      &title,
			MaxMembers: &capacity,
		})
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, 6, *got.MaxMembers)
		assert.Equal(t, model.TeamRecruiting, got.Status)
	})

	t.Run("non leader is rejected", func(t *testing.T) {
		f := newFixture(t)
		leader := testutil.SeedUser(t, f.db, "leader")
		member := testutil.SeedUser(t, f.db, "member")
		resp := f.create(t, leader, 4)
		f.join(t, resp.CommunityID, member)

		title := "Hijacked"
		_, err := f.svc.UpdateRecruitment(ctx, resp.CommunityID, member, &model.UpdateRecruitmentRequest{Title: &title})
		assert.ErrorIs(t, err, membershipModel.ErrNotLeader)
	})

	t.Run("capacity below member count", func(t *testing.T) {
		f := newFixture(t)
		leader := testutil.SeedUser(t, f.db, "leader")
		a := testutil.SeedUser(t, f.db, "a")
		b := testutil.SeedUser(t, f.db, "b")
		resp := f.create(t, leader, 5)
		f.join(t, resp.CommunityID, a)
		f.join(t, resp.CommunityID, b)

		capacity := 2
		_, err := f.svc.UpdateRecruitment(ctx, resp.CommunityID, leader, &model.UpdateRecruitmentRequest{MaxMembers: &capacity})
		assert.ErrorIs(t, err, model.ErrCapacityTooLow)
	})

	t.Run("capacity equal to member count closes recruitment", func(t *testing.T) {
		f := newFixture(t)
		leader := testutil.SeedUser(t, f.db, "leader")
		a := testutil.SeedUser(t, f.db, "a")
		resp := f.create(t, leader, 5)
		f.join(t, resp.CommunityID, a)

		capacity := 2
		got, err := f.svc.UpdateRecruitment(ctx, resp.CommunityID, leader, &model.UpdateRecruitmentRequest{MaxMembers: &capacity})
		require.NoError(t, err)
		assert.Equal(t, model.TeamActive, got.Status)
		assert.Equal(t, model.RecruitmentClosed, *got.RecruitmentStatus)

		_, err = f.svc.UpdateRecruitment(ctx, resp.CommunityID, leader, &model.UpdateRecruitmentRequest{MaxMembers: &capacity})
		assert.ErrorIs(t, err, model.ErrNotRecruiting)
	})
}

func TestService_EndRecruitment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	member := testutil.SeedUser(t, f.db, "member")
	resp := f.create(t, leader, 4)

	_, err := f.svc.EndRecruitment(ctx, resp.CommunityID, leader)
	assert.ErrorIs(t, err, model.ErrNotEnoughMembers)

	f.join(t, resp.CommunityID, member)

	_, err = f.svc.EndRecruitment(ctx, resp.CommunityID, member)
	assert.ErrorIs(t, err, membershipModel.ErrNotLeader)

	got, err := f.svc.EndRecruitment(ctx, resp.CommunityID, leader)
	require.NoError(t, err)
	assert.Equal(t, model.TeamActive, got.Status)
	assert.Equal(t, model.RecruitmentClosed, *got.RecruitmentStatus)

	_, err = f.svc.EndRecruitment(ctx, resp.CommunityID, leader)
	assert.ErrorIs(t, err, model.ErrNotRecruiting)
}

// seedContent attaches a member, a pending application, a team post and a
// comment to the community.
func seedContent(t *testing.T, f *fixture, resp *model.CreateCommunityResponse) {
	t.Helper()
	ctx := context.Background()
	member := testutil.SeedUser(t, f.db, "member")
	applicant := testutil.SeedUser(t, f.db, "applicant")
	f.join(t, resp.CommunityID, member)

	_, err := applicationRepository.New(f.db, f.logger).Create(ctx, applicant, resp.PostID, "let me in")
	require.NoError(t, err)

	content := teampostRepository.New(f.db, f.logger)
	now := time.Now().UTC()
	post := &teampostModel.TeamPost{
		TeamID: resp.CommunityID, UserID: member, Title: "Chapter 1", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, content.CreatePost(ctx, post))
	require.NoError(t, content.CreateComment(ctx, &teampostModel.TeamComment{
		TeamPostID: post.ID, UserID: member, Content: "great start", CreatedAt: now, UpdatedAt: now,
	}))
}

type residue struct {
	teams, posts, members, applications, teamPosts, comments int64
}

func countResidue(t *testing.T, db *gorm.DB, resp *model.CreateCommunityResponse) residue {
	t.Helper()
	return residue{
		teams:        testutil.Count(t, db, "teams", "id = ?", resp.CommunityID),
		posts:        testutil.Count(t, db, "posts", "id = ?", resp.PostID),
		members:      testutil.Count(t, db, "team_members", "team_id = ?", resp.CommunityID),
		applications: testutil.Count(t, db, "team_applications", "post_id = ?", resp.PostID),
		teamPosts:    testutil.Count(t, db, "team_posts", "team_id = ?", resp.CommunityID),
		comments:     testutil.Count(t, db, "team_comments", "1 = 1"),
	}
}

var intact = residue{teams: 1, posts: 1, members: 2, applications: 1, teamPosts: 1, comments: 1}

func TestService_CancelRecruitment_RemovesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	resp := f.create(t, leader, 4)
	seedContent(t, f, resp)
	require.Equal(t, intact, countResidue(t, f.db, resp))

	require.NoError(t, f.svc.CancelRecruitment(ctx, resp.CommunityID, leader))

	assert.Equal(t, residue{}, countResidue(t, f.db, resp))
	assert.Equal(t, []string{metrics.TeardownSucceeded}, f.recorder.teardowns)

	_, err := f.svc.GetCommunity(ctx, resp.CommunityID)
	assert.ErrorIs(t, err, model.ErrCommunityNotFound)
}

func TestService_CancelRecruitment_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	resp := f.create(t, leader, 4)
	seedContent(t, f, resp)
	member := int64(0)
	require.NoError(t, f.db.Table("users").Select("id").Where("nickname = ?", "member").Scan(&member).Error)

	err := f.svc.CancelRecruitment(ctx, resp.CommunityID, member)
	assert.ErrorIs(t, err, membershipModel.ErrNotLeader)

	err = f.svc.CancelRecruitment(ctx, resp.CommunityID+100, leader)
	assert.ErrorIs(t, err, model.ErrCommunityNotFound)

	assert.Equal(t, intact, countResidue(t, f.db, resp))
	assert.Empty(t, f.recorder.teardowns)
}

type failingApplications struct {
	applicationRepository.Repository
}

func (failingApplications) DeleteByPost(context.Context, int64) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestService_CancelRecruitment_StepFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	resp := f.create(t, leader, 4)
	seedContent(t, f, resp)

	s := f.svc.(*service)
	s.storesOf = func(tx *gorm.DB) stores {
		st := s.defaultStores(tx)
		st.applications = failingApplications{st.applications}
		return st
	}

	err := f.svc.CancelRecruitment(ctx, resp.CommunityID, leader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teardown step 4 (delete applications)")

	// comments, posts and members were deleted before the failure and must be back
	assert.Equal(t, intact, countResidue(t, f.db, resp))
	assert.Equal(t, []string{metrics.TeardownFailed}, f.recorder.teardowns)
}

type inertCommunities struct {
	repository.Repository
}

func (inertCommunities) DeletePost(context.Context, int64) (int64, error) { return 0, nil }
func (inertCommunities) DeleteTeam(context.Context, int64) (int64, error) { return 0, nil }

func TestService_CancelRecruitment_IncompleteRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := testutil.SeedUser(t, f.db, "leader")
	resp := f.create(t, leader, 4)
	seedContent(t, f, resp)

	s := f.svc.(*service)
	s.storesOf = func(tx *gorm.DB) stores {
		st := s.defaultStores(tx)
		st.communities = inertCommunities{st.communities}
		return st
	}

	err := f.svc.CancelRecruitment(ctx, resp.CommunityID, leader)
	assert.ErrorIs(t, err, model.ErrTeardownIncomplete)

	assert.Equal(t, intact, countResidue(t, f.db, resp))
	assert.Equal(t, []string{metrics.TeardownIncomplete}, f.recorder.teardowns)
}
