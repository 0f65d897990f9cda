package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/testutil"
)

// seedCommunity inserts a community with the given capacity, status and members.
func seedCommunity(t *testing.T, db *gorm.DB, title, status string, capacity int, members []int64) (teamID, postID int64) {
	t.Helper()
	now := time.Now()
	post := map[string]interface{}{
		"user_id": members[0], "type": "RECRUITMENT", "title": title,
		"max_members": capacity, "recruitment_status": "RECRUITING", "created_at": now, "updated_at": now,
	}
	require.NoError(t, db.Table("posts").Create(post).Error)
	require.NoError(t, db.Table("posts").Select("MAX(id)").Scan(&postID).Error)

	team := map[string]interface{}{"post_id": postID, "status": status, "title": title, "created_at": now, "updated_at": now}
	require.NoError(t, db.Table("teams").Create(team).Error)
	require.NoError(t, db.Table("teams").Select("MAX(id)").Scan(&teamID).Error)

	for i, userID := range members {
		role := "MEMBER"
		if i == 0 {
			role = "LEADER"
		}
		row := map[string]interface{}{"team_id": teamID, "user_id": userID, "role": role, "joined_at": now}
		require.NoError(t, db.Table("team_members").Create(row).Error)
	}
	return teamID, postID
}

func seedApplication(t *testing.T, db *gorm.DB, userID, postID int64, status string) {
	t.Helper()
	row := map[string]interface{}{"user_id": userID, "post_id": postID, "status": status, "applied_at": time.Now()}
	require.NoError(t, db.Table("team_applications").Create(row).Error)
}

func TestRepository_GetCommunityFill(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, zap.NewNop().Sugar())

	t.Run("empty database", func(t *testing.T) {
		rows, err := repo.GetCommunityFill(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	a := testutil.SeedUser(t, db, "a")
	b := testutil.SeedUser(t, db, "b")
	c := testutil.SeedUser(t, db, "c")
	half, _ := seedCommunity(t, db, "Dune", "RECRUITING", 4, []int64{a, b})
	full, _ := seedCommunity(t, db, "Solaris", "ACTIVE", 3, []int64{c, a, b})

	rows, err := repo.GetCommunityFill(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, full, rows[0].CommunityID)
	assert.Equal(t, int64(3), rows[0].MemberCount)
	assert.Equal(t, int64(3), rows[0].MaxMembers)
	assert.InDelta(t, 1.0, rows[0].Fill, 1e-9)
	assert.Equal(t, "ACTIVE", rows[0].Status)

	assert.Equal(t, half, rows[1].CommunityID)
	assert.InDelta(t, 0.5, rows[1].Fill, 1e-9)
}

func TestRepository_GetStatusCounts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := New(db, zap.NewNop().Sugar())

	t.Run("empty database", func(t *testing.T) {
		counts, err := repo.GetStatusCounts(ctx)
		require.NoError(t, err)
		assert.Zero(t, counts.TotalCommunities)
		assert.Zero(t, counts.TotalApplications)
	})

	a := testutil.SeedUser(t, db, "a")
	b := testutil.SeedUser(t, db, "b")
	c := testutil.SeedUser(t, db, "c")
	_, dunePost := seedCommunity(t, db, "Dune", "RECRUITING", 4, []int64{a})
	seedCommunity(t, db, "Solaris", "ACTIVE", 2, []int64{b, c})
	seedApplication(t, db, b, dunePost, "PENDING")
	seedApplication(t, db, c, dunePost, "REJECTED")

	counts, err := repo.GetStatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.TotalCommunities)
	assert.Equal(t, int64(1), counts.RecruitingCommunities)
	assert.Equal(t, int64(1), counts.ActiveCommunities)
	assert.Equal(t, int64(2), counts.TotalApplications)
	assert.Equal(t, int64(1), counts.PendingApplications)
	assert.Zero(t, counts.AcceptedApplications)
	assert.Equal(t, int64(1), counts.RejectedApplications)
}
