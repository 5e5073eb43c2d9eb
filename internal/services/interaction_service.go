package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

type LikeResult struct {
	Result
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type SaveResult struct {
	Result
	Saved bool `json:"saved"`
}

type CommentResult struct {
	Result
	Comment *models.Interaction `json:"comment,omitempty"`
}

// InteractionService handles likes, comments, and saves on purchases. Every
// mutation re-checks visibility first; a non-friend cannot interact with a
// purchase even by guessing its id.
type InteractionService struct {
	interactionRepo repositories.InteractionRepository
	purchaseRepo    repositories.PurchaseRepository
	sharing         *SharingService
	notifications   *NotificationService
}

func NewInteractionService(
	interactionRepo repositories.InteractionRepository,
	purchaseRepo repositories.PurchaseRepository,
	sharing *SharingService,
	notifications *NotificationService,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		purchaseRepo:    purchaseRepo,
		sharing:         sharing,
		notifications:   notifications,
	}
}

// ToggleLike likes the purchase if the user has not liked it, unlikes it
// otherwise. A duplicate-key collision on insert means a concurrent request
// won the race; it is reported as the like already existing, never as a
// second row.
func (s *InteractionService) ToggleLike(purchaseID, userID uint) (LikeResult, error) {
	purchase, ok, err := s.viewable(purchaseID, userID)
	if err != nil {
		return LikeResult{}, err
	}
	if !ok {
		return LikeResult{Result: Result{Message: MsgPurchaseNotAccessible}}, nil
	}

	liked, err := s.interactionRepo.Exists(userID, purchaseID, models.InteractionTypeLike)
	if err != nil {
		return LikeResult{}, err
	}

	if liked {
		if err := s.interactionRepo.Delete(userID, purchaseID, models.InteractionTypeLike); err != nil {
			return LikeResult{}, err
		}
		s.notifications.DeleteLikeNotification(userID, purchaseID)
	} else {
		interaction := &models.Interaction{
			UserID:     userID,
			PurchaseID: purchaseID,
			Type:       models.InteractionTypeLike,
		}
		err := s.interactionRepo.Create(interaction)
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return LikeResult{}, err
		}
		if err == nil {
			s.notifications.NotifyLike(userID, purchase.UserID, purchaseID)
		}
	}

	count, err := s.interactionRepo.CountByPurchase(purchaseID, models.InteractionTypeLike)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{
		Result:     Result{Success: true},
		Liked:      !liked,
		LikesCount: count,
	}, nil
}

// AddComment appends a comment. Comments are never toggled or deduplicated.
func (s *InteractionService) AddComment(purchaseID, userID uint, content string) (CommentResult, error) {
	purchase, ok, err := s.viewable(purchaseID, userID)
	if err != nil {
		return CommentResult{}, err
	}
	if !ok {
		return CommentResult{Result: Result{Message: MsgPurchaseNotAccessible}}, nil
	}

	content = sanitizeComment(content)
	if content == "" {
		return CommentResult{Result: Result{Message: "comment cannot be empty"}}, nil
	}
	// Characters, not bytes; a multibyte comment must get the full 1000.
	if utf8.RuneCountInString(content) > maxCommentLength {
		return CommentResult{Result: Result{Message: "comment exceeds 1000 characters"}}, nil
	}

	comment := &models.Interaction{
		UserID:     userID,
		PurchaseID: purchaseID,
		Type:       models.InteractionTypeComment,
		Content:    content,
	}
	if err := s.interactionRepo.Create(comment); err != nil {
		return CommentResult{}, err
	}
	s.notifications.NotifyComment(userID, purchase.UserID, purchaseID)

	return CommentResult{Result: Result{Success: true}, Comment: comment}, nil
}

// ToggleSave bookmarks or un-bookmarks the purchase. Saves never notify.
func (s *InteractionService) ToggleSave(purchaseID, userID uint) (SaveResult, error) {
	_, ok, err := s.viewable(purchaseID, userID)
	if err != nil {
		return SaveResult{}, err
	}
	if !ok {
		return SaveResult{Result: Result{Message: MsgPurchaseNotAccessible}}, nil
	}

	saved, err := s.interactionRepo.Exists(userID, purchaseID, models.InteractionTypeSave)
	if err != nil {
		return SaveResult{}, err
	}

	if saved {
		if err := s.interactionRepo.Delete(userID, purchaseID, models.InteractionTypeSave); err != nil {
			return SaveResult{}, err
		}
	} else {
		interaction := &models.Interaction{
			UserID:     userID,
			PurchaseID: purchaseID,
			Type:       models.InteractionTypeSave,
		}
		err := s.interactionRepo.Create(interaction)
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return SaveResult{}, err
		}
	}

	return SaveResult{Result: Result{Success: true}, Saved: !saved}, nil
}

// GetComments lists a purchase's comments oldest first, gated on visibility.
func (s *InteractionService) GetComments(purchaseID, viewerID uint) ([]models.Interaction, bool, error) {
	_, ok, err := s.viewable(purchaseID, viewerID)
	if err != nil || !ok {
		return nil, ok, err
	}
	comments, err := s.interactionRepo.ListComments(purchaseID)
	return comments, true, err
}

// GetSavedPurchases returns the purchases the user saved that are still
// visible to them. A save outlives an unshare or an unfriending, so each
// purchase is re-gated at read time.
func (s *InteractionService) GetSavedPurchases(userID uint) ([]models.Purchase, error) {
	saved, err := s.interactionRepo.ListSaved(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(saved))
	for i, item := range saved {
		ids[i] = item.PurchaseID
	}
	purchases, err := s.purchaseRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		ok, err := s.sharing.CanViewPurchase(p.ID, userID)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *InteractionService) viewable(purchaseID, userID uint) (*models.Purchase, bool, error) {
	ok, err := s.sharing.CanViewPurchase(purchaseID, userID)
	if err != nil || !ok {
		return nil, false, err
	}
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		return nil, false, err
	}
	return purchase, true, nil
}

// sanitizeComment trims whitespace and strips control characters, keeping
// newlines.
func sanitizeComment(content string) string {
	var b strings.Builder
	for _, r := range content {
		if r == '\n' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
