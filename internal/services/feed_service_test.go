package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/buyroll/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	svc          *FeedService
	users        *fakeUserRepo
	purchases    *fakePurchaseRepo
	conns        *fakeConnectionRepo
	interactions *fakeInteractionRepo
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	users := newFakeUserRepo()
	purchases := newFakePurchaseRepo()
	conns := newFakeConnectionRepo(users)
	interactions := newFakeInteractionRepo()
	return &feedFixture{
		svc:          NewFeedService(purchases, conns, users, interactions),
		users:        users,
		purchases:    purchases,
		conns:        conns,
		interactions: interactions,
	}
}

func TestGetFeedEmptyWithoutFriends(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	other := f.users.mustAdd("bob", models.UserSettings{})
	f.purchases.mustAdd(other, true, time.Now())

	page, err := f.svc.GetFeed(viewer, 1, 20, 0, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.False(t, page.HasNext)
}

func TestGetFeedShowsOnlySharedFriendPurchases(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	stranger := f.users.mustAdd("carol", models.UserSettings{})
	f.conns.befriend(viewer, friend)

	shared := f.purchases.mustAdd(friend, true, time.Now())
	f.purchases.mustAdd(friend, false, time.Now())  // unshared, hidden
	f.purchases.mustAdd(stranger, true, time.Now()) // not a friend, hidden
	f.purchases.mustAdd(viewer, true, time.Now())   // own purchases are not feed items

	page, err := f.svc.GetFeed(viewer, 1, 20, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, shared, page.Items[0].ID)
	assert.Equal(t, "bob", page.Items[0].Owner.Name)
}

func TestGetFeedFriendFilter(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	bob := f.users.mustAdd("bob", models.UserSettings{})
	carol := f.users.mustAdd("carol", models.UserSettings{})
	stranger := f.users.mustAdd("dave", models.UserSettings{})
	f.conns.befriend(viewer, bob)
	f.conns.befriend(viewer, carol)

	bobsPurchase := f.purchases.mustAdd(bob, true, time.Now())
	f.purchases.mustAdd(carol, true, time.Now())

	page, err := f.svc.GetFeed(viewer, 1, 20, bob, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, bobsPurchase, page.Items[0].ID)

	// Narrowing to a non-friend yields an empty page, not an error.
	page, err = f.svc.GetFeed(viewer, 1, 20, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetFeedOrderingAndPagination(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(viewer, friend)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, f.purchases.mustAdd(friend, true, base.Add(time.Duration(i)*time.Hour)))
	}

	page, err := f.svc.GetFeed(viewer, 2, 2, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
	require.Len(t, page.Items, 2)
	// Newest first: page 2 holds the third and second newest.
	assert.Equal(t, ids[2], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[1].ID)
}

func TestGetFeedPerPageClamped(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(viewer, friend)
	f.purchases.mustAdd(friend, true, time.Now())

	// Oversized per_page clamps to the cap rather than resetting to the
	// default.
	page, err := f.svc.GetFeed(viewer, 1, 500, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 50, page.PerPage)

	page, err = f.svc.GetFeed(viewer, 1, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 20, page.PerPage)
}

func TestGetFeedEnrichment(t *testing.T) {
	f := newFeedFixture(t)
	viewer := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(viewer, friend)
	purchaseID := f.purchases.mustAdd(friend, true, time.Now())

	require.NoError(t, f.interactions.Create(&models.Interaction{
		UserID: viewer, PurchaseID: purchaseID, Type: models.InteractionTypeLike,
	}))
	require.NoError(t, f.interactions.Create(&models.Interaction{
		UserID: viewer, PurchaseID: purchaseID, Type: models.InteractionTypeSave,
	}))
	for i := 0; i < 4; i++ {
		require.NoError(t, f.interactions.Create(&models.Interaction{
			UserID:     friend,
			PurchaseID: purchaseID,
			Type:       models.InteractionTypeComment,
			Content:    fmt.Sprintf("comment %d", i),
		}))
	}

	page, err := f.svc.GetFeed(viewer, 1, 20, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]

	assert.Equal(t, int64(1), item.LikesCount)
	assert.Equal(t, int64(4), item.CommentsCount)
	assert.True(t, item.UserLiked)
	assert.True(t, item.UserSaved)
	require.Len(t, item.RecentComments, 3, "recent comments are capped")
	assert.Equal(t, "comment 3", item.RecentComments[0].Content, "newest comment first")
	assert.Equal(t, "bob", item.RecentComments[0].Author.Name)
}
