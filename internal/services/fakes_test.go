package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the persistence contracts the
// services rely on: record-not-found and duplicate-key surface as the same
// gorm sentinel errors the Postgres implementations translate to.

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string, limit int) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) mustAdd(name string, settings models.UserSettings) uint {
	u := &models.User{Name: name, Email: fmt.Sprintf("%s-%d@example.com", name, r.nextID), Settings: settings}
	if err := r.CreateUser(u); err != nil {
		panic(err)
	}
	return u.ID
}

type fakePurchaseRepo struct {
	purchases map[uint]models.Purchase
	nextID    uint
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: make(map[uint]models.Purchase), nextID: 1}
}

func (r *fakePurchaseRepo) CreatePurchase(purchase *models.Purchase) error {
	for _, p := range r.purchases {
		if p.UserID == purchase.UserID && p.OrderID == purchase.OrderID && p.StoreName == purchase.StoreName {
			return gorm.ErrDuplicatedKey
		}
	}
	purchase.ID = r.nextID
	r.nextID++
	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *fakePurchaseRepo) GetPurchaseByID(id uint) (*models.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakePurchaseRepo) SavePurchase(purchase *models.Purchase) error {
	if _, ok := r.purchases[purchase.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *fakePurchaseRepo) ListByUser(userID uint, q models.PurchaseListQuery) ([]models.Purchase, int64, error) {
	var out []models.Purchase
	for _, p := range r.purchases {
		if p.UserID == userID && (!q.SharedOnly || p.IsShared) {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, int64(len(out)), nil
}

func (r *fakePurchaseRepo) ListOwnedIn(userID uint, ids []uint) ([]models.Purchase, error) {
	out := []models.Purchase{}
	for _, id := range ids {
		if p, ok := r.purchases[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) ListSharedByUser(userID uint, limit int) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, p := range r.purchases {
		if p.UserID == userID && p.IsShared {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePurchaseRepo) ListSharedByUsers(ownerIDs []uint, category string, offset, limit int) ([]models.Purchase, int64, error) {
	owners := make(map[uint]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	var all []models.Purchase
	for _, p := range r.purchases {
		if !owners[p.UserID] || !p.IsShared {
			continue
		}
		if category != "" && (p.Product == nil || p.Product.Category != category) {
			continue
		}
		all = append(all, p)
	}
	sortNewestFirst(all)
	total := int64(len(all))
	if offset >= len(all) {
		return []models.Purchase{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakePurchaseRepo) ListByIDs(ids []uint) ([]models.Purchase, error) {
	out := []models.Purchase{}
	for _, id := range ids {
		if p, ok := r.purchases[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) CountByUser(userID uint) (int64, int64, error) {
	var total, shared int64
	for _, p := range r.purchases {
		if p.UserID != userID {
			continue
		}
		total++
		if p.IsShared {
			shared++
		}
	}
	return total, shared, nil
}

func (r *fakePurchaseRepo) ExistsByOrder(userID uint, orderID, storeName string) (bool, error) {
	for _, p := range r.purchases {
		if p.UserID == userID && p.OrderID == orderID && p.StoreName == storeName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePurchaseRepo) mustAdd(userID uint, shared bool, placedAt time.Time) uint {
	p := &models.Purchase{
		UserID:       userID,
		PurchaseDate: placedAt,
		StoreName:    "shop.example.com",
		OrderID:      fmt.Sprintf("order-%d", r.nextID),
		Quantity:     1,
		TotalPrice:   10,
		Currency:     "USD",
		IsShared:     shared,
	}
	if err := r.CreatePurchase(p); err != nil {
		panic(err)
	}
	return p.ID
}

func sortNewestFirst(purchases []models.Purchase) {
	sort.Slice(purchases, func(i, j int) bool {
		if !purchases[i].PurchaseDate.Equal(purchases[j].PurchaseDate) {
			return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate)
		}
		return purchases[i].ID > purchases[j].ID
	})
}

type fakeConnectionRepo struct {
	conns  []models.Connection
	users  *fakeUserRepo
	nextID uint
}

func newFakeConnectionRepo(users *fakeUserRepo) *fakeConnectionRepo {
	return &fakeConnectionRepo{users: users, nextID: 1}
}

func (r *fakeConnectionRepo) SendRequest(conn *models.Connection) error {
	for i, c := range r.conns {
		if samePair(c, conn.UserID, conn.FriendID) {
			switch c.Status {
			case models.ConnectionStatusPending:
				return fmt.Errorf("a pending friend request already exists between these users")
			case models.ConnectionStatusAccepted:
				return fmt.Errorf("users are already friends")
			}
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			break
		}
	}
	conn.ID = r.nextID
	r.nextID++
	conn.Status = models.ConnectionStatusPending
	r.conns = append(r.conns, *conn)
	return nil
}

func (r *fakeConnectionRepo) GetByID(id uint) (*models.Connection, error) {
	for _, c := range r.conns {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) GetBetween(userID, friendID uint) (*models.Connection, error) {
	for _, c := range r.conns {
		if samePair(c, userID, friendID) {
			found := c
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) ListPendingFor(userID uint) ([]models.Connection, error) {
	out := []models.Connection{}
	for _, c := range r.conns {
		if c.FriendID == userID && c.Status == models.ConnectionStatusPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) UpdateStatus(id uint, status string) error {
	for i, c := range r.conns {
		if c.ID == id {
			r.conns[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeConnectionRepo) DeleteBetween(userID, friendID uint) error {
	for i, c := range r.conns {
		if samePair(c, userID, friendID) {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("connection not found")
}

func (r *fakeConnectionRepo) AreFriends(userID, friendID uint) (bool, error) {
	for _, c := range r.conns {
		if samePair(c, userID, friendID) && c.Status == models.ConnectionStatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConnectionRepo) GetFriendIDs(userID uint) ([]uint, error) {
	ids := []uint{}
	for _, c := range r.conns {
		if c.Status != models.ConnectionStatusAccepted {
			continue
		}
		if c.UserID == userID {
			ids = append(ids, c.FriendID)
		} else if c.FriendID == userID {
			ids = append(ids, c.UserID)
		}
	}
	return ids, nil
}

func (r *fakeConnectionRepo) ListFriends(userID uint) ([]models.User, error) {
	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeConnectionRepo) befriend(userID, friendID uint) {
	r.conns = append(r.conns, models.Connection{
		Model:    gorm.Model{ID: r.nextID},
		UserID:   userID,
		FriendID: friendID,
		Status:   models.ConnectionStatusAccepted,
	})
	r.nextID++
}

func samePair(c models.Connection, userID, friendID uint) bool {
	return (c.UserID == userID && c.FriendID == friendID) ||
		(c.UserID == friendID && c.FriendID == userID)
}

type fakeInteractionRepo struct {
	items  []models.Interaction
	nextID uint
	now    time.Time
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{nextID: 1, now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *fakeInteractionRepo) Create(interaction *models.Interaction) error {
	if interaction.Type != models.InteractionTypeComment {
		for _, i := range r.items {
			if i.UserID == interaction.UserID && i.PurchaseID == interaction.PurchaseID && i.Type == interaction.Type {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	interaction.ID = r.nextID
	r.nextID++
	interaction.CreatedAt = r.now
	r.now = r.now.Add(time.Minute)
	r.items = append(r.items, *interaction)
	return nil
}

func (r *fakeInteractionRepo) Delete(userID, purchaseID uint, interactionType string) error {
	for i, item := range r.items {
		if item.UserID == userID && item.PurchaseID == purchaseID && item.Type == interactionType {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s not found", interactionType)
}

func (r *fakeInteractionRepo) Exists(userID, purchaseID uint, interactionType string) (bool, error) {
	for _, i := range r.items {
		if i.UserID == userID && i.PurchaseID == purchaseID && i.Type == interactionType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInteractionRepo) CountByPurchase(purchaseID uint, interactionType string) (int64, error) {
	var count int64
	for _, i := range r.items {
		if i.PurchaseID == purchaseID && i.Type == interactionType {
			count++
		}
	}
	return count, nil
}

func (r *fakeInteractionRepo) CountByPurchases(purchaseIDs []uint, interactionType string) (map[uint]int64, error) {
	result := make(map[uint]int64)
	for _, id := range purchaseIDs {
		n, _ := r.CountByPurchase(id, interactionType)
		if n > 0 {
			result[id] = n
		}
	}
	return result, nil
}

func (r *fakeInteractionRepo) ExistsByPurchases(userID uint, purchaseIDs []uint, interactionType string) (map[uint]bool, error) {
	result := make(map[uint]bool)
	for _, id := range purchaseIDs {
		if ok, _ := r.Exists(userID, id, interactionType); ok {
			result[id] = true
		}
	}
	return result, nil
}

func (r *fakeInteractionRepo) ListComments(purchaseID uint) ([]models.Interaction, error) {
	var comments []models.Interaction
	for _, i := range r.items {
		if i.PurchaseID == purchaseID && i.Type == models.InteractionTypeComment {
			comments = append(comments, i)
		}
	}
	sort.Slice(comments, func(a, b int) bool { return comments[a].CreatedAt.Before(comments[b].CreatedAt) })
	return comments, nil
}

func (r *fakeInteractionRepo) ListCommentsByPurchases(purchaseIDs []uint) (map[uint][]models.Interaction, error) {
	result := make(map[uint][]models.Interaction)
	for _, id := range purchaseIDs {
		comments, _ := r.ListComments(id)
		if len(comments) == 0 {
			continue
		}
		// Newest first, matching the feed query.
		sort.Slice(comments, func(a, b int) bool { return comments[a].CreatedAt.After(comments[b].CreatedAt) })
		result[id] = comments
	}
	return result, nil
}

func (r *fakeInteractionRepo) ListSaved(userID uint) ([]models.Interaction, error) {
	var saved []models.Interaction
	for _, i := range r.items {
		if i.UserID == userID && i.Type == models.InteractionTypeSave {
			saved = append(saved, i)
		}
	}
	return saved, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = r.nextID
	r.nextID++
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var all []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			all = append(all, n)
		}
	}
	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return []models.Notification{}, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	for i, n := range r.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i, n := range r.notifications {
		if n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByActorPurchase(notificationType string, actorID, purchaseID uint) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Type == notificationType && n.ActorID == actorID && n.PurchaseID == purchaseID {
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID uint) []models.Notification {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type fakeAnalyticsRepo struct {
	summary       repositories.SpendingSummary
	byCategory    []repositories.CategorySpending
	byMonth       []repositories.MonthlySpending
	byStore       []repositories.StoreSpending
	summaryCalls  int
	byMonthCalls  int
	lastMonthsArg int
}

func (r *fakeAnalyticsRepo) SpendingSummary(userID uint) (repositories.SpendingSummary, error) {
	r.summaryCalls++
	return r.summary, nil
}

func (r *fakeAnalyticsRepo) SpendingByCategory(userID uint) ([]repositories.CategorySpending, error) {
	return r.byCategory, nil
}

func (r *fakeAnalyticsRepo) SpendingByMonth(userID uint, months int) ([]repositories.MonthlySpending, error) {
	r.byMonthCalls++
	r.lastMonthsArg = months
	return r.byMonth, nil
}

func (r *fakeAnalyticsRepo) SpendingByStore(userID uint) ([]repositories.StoreSpending, error) {
	return r.byStore, nil
}
