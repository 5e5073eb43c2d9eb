package services

import (
	"math"
	"time"

	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
)

const recentCommentsCap = 3

// FeedItem is a shared purchase enriched with its owner's public profile,
// interaction counts, and the viewer's own like/save state.
type FeedItem struct {
	models.Purchase
	Owner          models.UserCompact `json:"owner"`
	LikesCount     int64              `json:"likes_count"`
	CommentsCount  int64              `json:"comments_count"`
	RecentComments []FeedComment      `json:"recent_comments"`
	UserLiked      bool               `json:"user_liked"`
	UserSaved      bool               `json:"user_saved"`
}

type FeedComment struct {
	ID        uint               `json:"id"`
	Author    models.UserCompact `json:"author"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
}

type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Pages   int        `json:"pages"`
	HasNext bool       `json:"has_next"`
	HasPrev bool       `json:"has_prev"`
}

// FeedService materializes a user's view of friends' shared purchases.
type FeedService struct {
	purchaseRepo    repositories.PurchaseRepository
	connectionRepo  repositories.ConnectionRepository
	userRepo        repositories.UserRepository
	interactionRepo repositories.InteractionRepository
}

func NewFeedService(
	purchaseRepo repositories.PurchaseRepository,
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	interactionRepo repositories.InteractionRepository,
) *FeedService {
	return &FeedService{
		purchaseRepo:    purchaseRepo,
		connectionRepo:  connectionRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
	}
}

// GetFeed assembles one page of the viewer's feed. friendID narrows the feed
// to a single friend; category filters on the product. An empty friend set
// returns an empty page without touching the purchase table.
func (s *FeedService) GetFeed(userID uint, page, perPage int, friendID uint, category string) (FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	} else if perPage > 50 {
		perPage = 50
	}

	friendIDs, err := s.connectionRepo.GetFriendIDs(userID)
	if err != nil {
		return FeedPage{}, err
	}
	if friendID != 0 {
		found := false
		for _, id := range friendIDs {
			if id == friendID {
				found = true
				break
			}
		}
		if !found {
			// Filtering on a non-friend yields nothing rather than an error.
			friendIDs = nil
		} else {
			friendIDs = []uint{friendID}
		}
	}
	if len(friendIDs) == 0 {
		return emptyPage(page, perPage), nil
	}

	offset := (page - 1) * perPage
	purchases, total, err := s.purchaseRepo.ListSharedByUsers(friendIDs, category, offset, perPage)
	if err != nil {
		return FeedPage{}, err
	}

	items, err := s.enrich(purchases, userID)
	if err != nil {
		return FeedPage{}, err
	}

	pages := int(math.Ceil(float64(total) / float64(perPage)))
	return FeedPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

// enrich attaches owner profiles, interaction summaries, and viewer-relative
// flags to a purchase list.
func (s *FeedService) enrich(purchases []models.Purchase, viewerID uint) ([]FeedItem, error) {
	purchaseIDs := make([]uint, len(purchases))
	ownerIDSet := make(map[uint]bool)
	for i, p := range purchases {
		purchaseIDs[i] = p.ID
		ownerIDSet[p.UserID] = true
	}
	ownerIDs := make([]uint, 0, len(ownerIDSet))
	for id := range ownerIDSet {
		ownerIDs = append(ownerIDs, id)
	}

	owners, err := s.userRepo.GetUsersByIDs(ownerIDs)
	if err != nil {
		return nil, err
	}
	ownerMap := make(map[uint]models.UserCompact, len(owners))
	for i := range owners {
		ownerMap[owners[i].ID] = owners[i].ToCompact()
	}

	likeCounts, err := s.interactionRepo.CountByPurchases(purchaseIDs, models.InteractionTypeLike)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.interactionRepo.CountByPurchases(purchaseIDs, models.InteractionTypeComment)
	if err != nil {
		return nil, err
	}
	comments, err := s.interactionRepo.ListCommentsByPurchases(purchaseIDs)
	if err != nil {
		return nil, err
	}
	likedMap, err := s.interactionRepo.ExistsByPurchases(viewerID, purchaseIDs, models.InteractionTypeLike)
	if err != nil {
		return nil, err
	}
	savedMap, err := s.interactionRepo.ExistsByPurchases(viewerID, purchaseIDs, models.InteractionTypeSave)
	if err != nil {
		return nil, err
	}

	commentAuthors, err := s.commentAuthors(comments)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, len(purchases))
	for i, p := range purchases {
		recent := comments[p.ID]
		if len(recent) > recentCommentsCap {
			recent = recent[:recentCommentsCap]
		}
		feedComments := make([]FeedComment, len(recent))
		for j, c := range recent {
			feedComments[j] = FeedComment{
				ID:        c.ID,
				Author:    commentAuthors[c.UserID],
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			}
		}
		items[i] = FeedItem{
			Purchase:       p,
			Owner:          ownerMap[p.UserID],
			LikesCount:     likeCounts[p.ID],
			CommentsCount:  commentCounts[p.ID],
			RecentComments: feedComments,
			UserLiked:      likedMap[p.ID],
			UserSaved:      savedMap[p.ID],
		}
	}
	return items, nil
}

func (s *FeedService) commentAuthors(comments map[uint][]models.Interaction) (map[uint]models.UserCompact, error) {
	authorIDSet := make(map[uint]bool)
	for _, list := range comments {
		for _, c := range list {
			authorIDSet[c.UserID] = true
		}
	}
	authorIDs := make([]uint, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}
	authors, err := s.userRepo.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		result[authors[i].ID] = authors[i].ToCompact()
	}
	return result, nil
}

func emptyPage(page, perPage int) FeedPage {
	return FeedPage{
		Items:   []FeedItem{},
		Page:    page,
		PerPage: perPage,
		HasPrev: page > 1,
	}
}
