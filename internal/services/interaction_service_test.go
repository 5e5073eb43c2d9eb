package services

import (
	"strings"
	"testing"
	"time"

	"github.com/buyroll/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interactionFixture struct {
	svc           *InteractionService
	users         *fakeUserRepo
	purchases     *fakePurchaseRepo
	conns         *fakeConnectionRepo
	interactions  *fakeInteractionRepo
	notifications *fakeNotificationRepo
}

func newInteractionFixture(t *testing.T) *interactionFixture {
	t.Helper()
	users := newFakeUserRepo()
	purchases := newFakePurchaseRepo()
	conns := newFakeConnectionRepo(users)
	interactions := newFakeInteractionRepo()
	notifications := newFakeNotificationRepo()
	sharing := NewSharingService(purchases, conns, users)
	notifySvc := NewNotificationService(notifications, users)
	return &interactionFixture{
		svc:           NewInteractionService(interactions, purchases, sharing, notifySvc),
		users:         users,
		purchases:     purchases,
		conns:         conns,
		interactions:  interactions,
		notifications: notifications,
	}
}

func TestToggleLikeLifecycle(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(owner, friend)
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	result, err := f.svc.ToggleLike(purchaseID, friend)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)

	ownerNotifications := f.notifications.forRecipient(owner)
	require.Len(t, ownerNotifications, 1)
	assert.Equal(t, models.NotificationTypeLike, ownerNotifications[0].Type)
	assert.Contains(t, ownerNotifications[0].Message, "bob")

	// Liking again unlikes and withdraws the notification.
	result, err = f.svc.ToggleLike(purchaseID, friend)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikesCount)
	assert.Empty(t, f.notifications.forRecipient(owner))
}

func TestToggleLikeDeniedForStranger(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	stranger := f.users.mustAdd("carol", models.UserSettings{})
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	result, err := f.svc.ToggleLike(purchaseID, stranger)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgPurchaseNotAccessible, result.Message)
	assert.Empty(t, f.interactions.items)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	purchaseID := f.purchases.mustAdd(owner, false, time.Now())

	result, err := f.svc.ToggleLike(purchaseID, owner)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Empty(t, f.notifications.forRecipient(owner))
}

func TestAddCommentValidation(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(owner, friend)
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	result, err := f.svc.AddComment(purchaseID, friend, "   \x00\x07  ")
	require.NoError(t, err)
	assert.False(t, result.Success, "control characters and whitespace collapse to empty")

	result, err = f.svc.AddComment(purchaseID, friend, strings.Repeat("x", 1001))
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = f.svc.AddComment(purchaseID, friend, "  nice\x01 find\nbuying one too  ")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.Comment)
	assert.Equal(t, "nice find\nbuying one too", result.Comment.Content)

	ownerNotifications := f.notifications.forRecipient(owner)
	require.Len(t, ownerNotifications, 1)
	assert.Equal(t, models.NotificationTypeComment, ownerNotifications[0].Type)
}

func TestAddCommentLengthCountsCharacters(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(owner, friend)
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	// 600 characters at three bytes each; the bound counts runes, not bytes.
	result, err := f.svc.AddComment(purchaseID, friend, strings.Repeat("日", 600))
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = f.svc.AddComment(purchaseID, friend, strings.Repeat("日", 1001))
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestCommentsAreAppendOnly(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(owner, friend)
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	for i := 0; i < 2; i++ {
		result, err := f.svc.AddComment(purchaseID, friend, "same text")
		require.NoError(t, err)
		require.True(t, result.Success)
	}

	comments, ok, err := f.svc.GetComments(purchaseID, friend)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, comments, 2, "identical comments never deduplicate")
}

func TestToggleSaveAndSavedRegating(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	friend := f.users.mustAdd("bob", models.UserSettings{})
	f.conns.befriend(owner, friend)
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	result, err := f.svc.ToggleSave(purchaseID, friend)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Empty(t, f.notifications.forRecipient(owner), "saves are private")

	saved, err := f.svc.GetSavedPurchases(friend)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, purchaseID, saved[0].ID)

	// The save row survives an unshare, but the purchase disappears from the
	// saved listing until it is shared again.
	stored, _ := f.purchases.GetPurchaseByID(purchaseID)
	stored.IsShared = false
	require.NoError(t, f.purchases.SavePurchase(stored))

	saved, err = f.svc.GetSavedPurchases(friend)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestGetCommentsGatedByVisibility(t *testing.T) {
	f := newInteractionFixture(t)
	owner := f.users.mustAdd("alice", models.UserSettings{})
	stranger := f.users.mustAdd("carol", models.UserSettings{})
	purchaseID := f.purchases.mustAdd(owner, true, time.Now())

	_, ok, err := f.svc.GetComments(purchaseID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}
