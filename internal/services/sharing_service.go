package services

import (
	"errors"
	"math"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"gorm.io/gorm"
)

// MsgPurchaseNotAccessible is returned for both a missing purchase and a
// purchase owned by someone else, so callers cannot probe for existence.
const MsgPurchaseNotAccessible = "purchase not found or access denied"

// Result is the structured outcome for operations whose failures are
// expected (ownership, validation). Persistence faults travel as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NotifyTarget is one pending share notification. The sharing core computes
// targets but never delivers them; delivery happens after the toggle commits
// and its failures never roll back the share.
type NotifyTarget struct {
	RecipientID uint
	PurchaseID  uint
}

type ToggleResult struct {
	Result
	IsShared      bool           `json:"is_shared"`
	NotifyTargets []NotifyTarget `json:"-"`
}

type BulkResult struct {
	Result
	UpdatedCount  int            `json:"updated_count"`
	NotifyTargets []NotifyTarget `json:"-"`
}

type SharingStats struct {
	TotalPurchases    int64   `json:"total_purchases"`
	SharedPurchases   int64   `json:"shared_purchases"`
	SharingPercentage float64 `json:"sharing_percentage"`
}

// SharingService owns the share/unshare transition and the comment
// lifecycle for purchases, and decides who gets notified about a share.
type SharingService struct {
	purchaseRepo   repositories.PurchaseRepository
	connectionRepo repositories.ConnectionRepository
	userRepo       repositories.UserRepository
}

func NewSharingService(
	purchaseRepo repositories.PurchaseRepository,
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
) *SharingService {
	return &SharingService{
		purchaseRepo:   purchaseRepo,
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
	}
}

// getOwned loads a purchase if and only if it exists and belongs to userID.
// Missing and not-owned are indistinguishable to the caller.
func (s *SharingService) getOwned(purchaseID, userID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, nil
	}
	return purchase, nil
}

// ToggleSharing flips the purchase's visibility. Sharing sets the comment
// when one is given (otherwise whatever was set before stays); unsharing
// always clears it regardless of input.
func (s *SharingService) ToggleSharing(purchaseID, userID uint, comment *string) (ToggleResult, error) {
	purchase, err := s.getOwned(purchaseID, userID)
	if err != nil {
		return ToggleResult{}, err
	}
	if purchase == nil {
		return ToggleResult{Result: Result{Message: MsgPurchaseNotAccessible}}, nil
	}

	purchase.IsShared = !purchase.IsShared
	if purchase.IsShared {
		if comment != nil {
			purchase.ShareComment = comment
		}
	} else {
		purchase.ShareComment = nil
	}

	if err := s.purchaseRepo.SavePurchase(purchase); err != nil {
		return ToggleResult{}, err
	}

	result := ToggleResult{
		Result:   Result{Success: true, Message: "sharing updated"},
		IsShared: purchase.IsShared,
	}
	if purchase.IsShared {
		targets, err := s.notifyTargets(userID, purchase.ID)
		if err != nil {
			return ToggleResult{}, err
		}
		result.NotifyTargets = targets
	}
	return result, nil
}

// UpdateShareComment replaces the comment on an already-shared purchase. An
// unshared purchase has no visible comment to update.
func (s *SharingService) UpdateShareComment(purchaseID, userID uint, comment string) (Result, error) {
	purchase, err := s.getOwned(purchaseID, userID)
	if err != nil {
		return Result{}, err
	}
	if purchase == nil {
		return Result{Message: MsgPurchaseNotAccessible}, nil
	}
	if !purchase.IsShared {
		return Result{Message: "purchase is not shared"}, nil
	}

	purchase.ShareComment = &comment
	if err := s.purchaseRepo.SavePurchase(purchase); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "comment updated"}, nil
}

// BulkUpdateSharing applies one transition to every owned purchase in the id
// set. Ids the caller does not own are silently excluded; purchases already
// in the target state are skipped without a write or a notification.
func (s *SharingService) BulkUpdateSharing(userID uint, purchaseIDs []uint, isShared bool) (BulkResult, error) {
	owned, err := s.purchaseRepo.ListOwnedIn(userID, purchaseIDs)
	if err != nil {
		return BulkResult{}, err
	}

	var targets []NotifyTarget
	var friendTargets []NotifyTarget
	updated := 0
	for i := range owned {
		purchase := &owned[i]
		if purchase.IsShared == isShared {
			continue
		}
		purchase.IsShared = isShared
		if !isShared {
			purchase.ShareComment = nil
		}
		if err := s.purchaseRepo.SavePurchase(purchase); err != nil {
			return BulkResult{}, err
		}
		updated++
		if isShared {
			if friendTargets == nil {
				// Friend set is identical for every purchase in the batch;
				// resolve it once.
				friendTargets, err = s.notifyTargets(userID, 0)
				if err != nil {
					return BulkResult{}, err
				}
			}
			for _, t := range friendTargets {
				t.PurchaseID = purchase.ID
				targets = append(targets, t)
			}
		}
	}

	return BulkResult{
		Result:        Result{Success: true, Message: "sharing updated"},
		UpdatedCount:  updated,
		NotifyTargets: targets,
	}, nil
}

// CanViewPurchase is the canonical visibility gate: the owner always sees
// the purchase; anyone else needs it shared plus an accepted connection with
// the owner in either direction.
func (s *SharingService) CanViewPurchase(purchaseID, viewerID uint) (bool, error) {
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if purchase.UserID == viewerID {
		return true, nil
	}
	if !purchase.IsShared {
		return false, nil
	}
	return s.connectionRepo.AreFriends(purchase.UserID, viewerID)
}

// GetUserSharedPurchases lists the user's own shared purchases, newest first.
func (s *SharingService) GetUserSharedPurchases(userID uint, limit int) ([]models.Purchase, error) {
	return s.purchaseRepo.ListSharedByUser(userID, limit)
}

// GetFriendsSharedPurchases lists shared purchases from the user's accepted
// friends without pagination; the feed service is the paginated read path.
// A non-positive limit means no limit.
func (s *SharingService) GetFriendsSharedPurchases(userID uint, limit int) ([]models.Purchase, error) {
	friendIDs, err := s.connectionRepo.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []models.Purchase{}, nil
	}
	purchases, _, err := s.purchaseRepo.ListSharedByUsers(friendIDs, "", 0, limit)
	return purchases, err
}

// GetSharingStats reports the share ratio rounded to one decimal. Zero
// purchases means zero percent, never a division error.
func (s *SharingService) GetSharingStats(userID uint) (SharingStats, error) {
	total, shared, err := s.purchaseRepo.CountByUser(userID)
	if err != nil {
		return SharingStats{}, err
	}
	stats := SharingStats{TotalPurchases: total, SharedPurchases: shared}
	if total > 0 {
		stats.SharingPercentage = math.Round(float64(shared)/float64(total)*1000) / 10
	}
	return stats, nil
}

// notifyTargets resolves which friends should hear about a share, honoring
// each friend's own share-alert preference (absent means on).
func (s *SharingService) notifyTargets(userID, purchaseID uint) ([]NotifyTarget, error) {
	friendIDs, err := s.connectionRepo.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.userRepo.GetUsersByIDs(friendIDs)
	if err != nil {
		return nil, err
	}
	targets := make([]NotifyTarget, 0, len(friends))
	for _, friend := range friends {
		if !friend.Settings.Notifications.ShareAlertsOrDefault() {
			continue
		}
		targets = append(targets, NotifyTarget{RecipientID: friend.ID, PurchaseID: purchaseID})
	}
	return targets, nil
}
