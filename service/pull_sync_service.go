// ABOUTME: Pull-sync worker fetching remote deltas and reconciling them into local storage
// ABOUTME: Never overwrites an article whose local mutation is still awaiting push

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"sync-hub/driver"
	"sync-hub/models"
	"sync-hub/repository"
)

// PullSyncResult summarizes one reconciliation cycle.
type PullSyncResult struct {
	NewArticles      int           `json:"new_articles"`
	UpdatedArticles  int           `json:"updated_articles"`
	SkippedArticles  int           `json:"skipped_articles"`
	DeletedArticles  int           `json:"deleted_articles"`
	NewTags          int           `json:"new_tags"`
	FailedFeeds      int           `json:"failed_feeds"`
	NewSubscriptions int           `json:"new_subscriptions"`
	UnreadTotal      int           `json:"unread_total"`
	Duration         time.Duration `json:"duration"`
	Errors           []string      `json:"errors,omitempty"`
}

// PullSyncService reconciles remote subscription, unread and starred state
// into local storage.
type PullSyncService struct {
	apiClient    InoreaderAPI
	articleRepo  repository.ArticleRepository
	subRepo      repository.SubscriptionRepository
	queueRepo    repository.SyncQueueRepository
	stateRepo    repository.SyncStateRepository
	tracker      *RateLimitTracker
	maxPerPage   int
	refreshGate  *rate.Limiter
	logger       *slog.Logger
	knownTags    map[string]bool
	subsByStream map[string]uuid.UUID
}

// NewPullSyncService creates a new pull-sync worker. The aggregate refresh is
// coalesced through a rate limiter so large deltas do not thrash the
// materialized view.
func NewPullSyncService(
	apiClient InoreaderAPI,
	articleRepo repository.ArticleRepository,
	subRepo repository.SubscriptionRepository,
	queueRepo repository.SyncQueueRepository,
	stateRepo repository.SyncStateRepository,
	tracker *RateLimitTracker,
	maxPerPage int,
	logger *slog.Logger,
) *PullSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPerPage <= 0 {
		maxPerPage = 100
	}

	return &PullSyncService{
		apiClient:   apiClient,
		articleRepo: articleRepo,
		subRepo:     subRepo,
		queueRepo:   queueRepo,
		stateRepo:   stateRepo,
		tracker:     tracker,
		maxPerPage:  maxPerPage,
		// One aggregate refresh per 30s window, with a burst of one.
		refreshGate:  rate.NewLimiter(rate.Every(30*time.Second), 1),
		logger:       logger,
		knownTags:    make(map[string]bool),
		subsByStream: make(map[string]uuid.UUID),
	}
}

// Sync runs one full pull cycle: subscriptions, unread/starred stream deltas,
// reconciliation, then a coalesced aggregate refresh.
func (s *PullSyncService) Sync(ctx context.Context) (*PullSyncResult, error) {
	start := time.Now()
	result := &PullSyncResult{}

	if !s.tracker.CanProceed(models.ZoneRead, 2) {
		s.logger.Info("Pull-sync deferred due to read-zone rate limit")
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := s.syncSubscriptions(ctx, result); err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result, fmt.Errorf("subscription sync failed: %w", err)
	}

	// Unread counts are a cheap remote snapshot; reconciliation of the
	// derived aggregates can be checked against it after the streams merge.
	if counts, err := s.apiClient.FetchUnreadCounts(ctx); err != nil {
		result.Errors = append(result.Errors, err.Error())
		s.logger.Warn("Failed to fetch unread counts", "error", err)
	} else {
		for _, item := range counts.UnreadCounts {
			if item.ID == driver.StreamReadingList {
				result.UnreadTotal = item.Count
			}
		}
	}

	blocked, err := s.queueRepo.BlockedArticleIDs(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result, fmt.Errorf("failed to load blocked articles: %w", err)
	}

	// The reading list carries read-state deltas; the starred stream carries
	// star-state deltas. Feed failures degrade the run, they do not abort it.
	for _, streamID := range []string{driver.StreamReadingList, driver.StreamStarred} {
		if err := s.syncStream(ctx, streamID, blocked, result); err != nil {
			result.FailedFeeds++
			result.Errors = append(result.Errors, err.Error())
			s.logger.Error("Stream reconciliation failed",
				"stream_id", streamID,
				"error", err)
		}
	}

	if result.NewArticles > 0 || result.UpdatedArticles > 0 || result.DeletedArticles > 0 {
		s.refreshAggregates(ctx)
	}

	result.Duration = time.Since(start)

	s.logger.Info("Pull-sync cycle finished",
		"new_articles", result.NewArticles,
		"updated_articles", result.UpdatedArticles,
		"skipped_articles", result.SkippedArticles,
		"deleted_articles", result.DeletedArticles,
		"new_tags", result.NewTags,
		"failed_feeds", result.FailedFeeds,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

func (s *PullSyncService) syncSubscriptions(ctx context.Context, result *PullSyncResult) error {
	response, err := s.apiClient.FetchSubscriptionList(ctx)
	if err != nil {
		return err
	}

	keep := make([]string, 0, len(response.Subscriptions))
	for _, remote := range response.Subscriptions {
		keep = append(keep, remote.ID)

		category := ""
		if len(remote.Categories) > 0 {
			category = remote.Categories[0].Label
			if !s.knownTags[category] {
				s.knownTags[category] = true
				result.NewTags++
			}
		}

		sub := models.NewSubscription(remote.ID, remote.URL, remote.Title, category)
		created, err := s.subRepo.Upsert(ctx, sub)
		if err != nil {
			result.FailedFeeds++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if created {
			result.NewSubscriptions++
		}
	}

	// Remote unsubscribes cascade into article deletion.
	deleted, err := s.subRepo.DeleteMissing(ctx, keep)
	if err != nil {
		return err
	}
	for _, subID := range deleted {
		count, err := s.articleRepo.DeleteBySubscription(ctx, subID)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.DeletedArticles += count
	}

	s.rebuildStreamIndex(ctx)
	return nil
}

// rebuildStreamIndex refreshes the streamID -> subscription UUID mapping used
// to attribute newly discovered articles.
func (s *PullSyncService) rebuildStreamIndex(ctx context.Context) {
	subs, err := s.subRepo.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to rebuild subscription stream index", "error", err)
		return
	}

	index := make(map[string]uuid.UUID, len(subs))
	for _, sub := range subs {
		index[sub.InoreaderID] = sub.ID
	}
	s.subsByStream = index
}

func (s *PullSyncService) syncStream(ctx context.Context, streamID string, blocked map[uuid.UUID]bool, result *PullSyncResult) error {
	continuation := ""
	if state, err := s.stateRepo.FindByStreamID(ctx, streamID); err == nil {
		continuation = state.ContinuationToken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// One page per call; pagination is bounded by the read-zone budget.
	for {
		if !s.tracker.CanProceed(models.ZoneRead, 1) {
			s.logger.Info("Stream pagination deferred due to read-zone rate limit",
				"stream_id", streamID)
			return nil
		}

		response, err := s.apiClient.FetchStreamContents(ctx, streamID, continuation, s.maxPerPage, false)
		if err != nil {
			if errors.Is(err, driver.ErrRateLimited) {
				return nil
			}
			return err
		}

		for _, item := range response.Items {
			s.reconcileItem(ctx, item, blocked, result)
		}

		state := models.NewSyncState(streamID, response.Continuation)
		if err := s.stateRepo.Upsert(ctx, state); err != nil {
			s.logger.Warn("Failed to persist continuation token",
				"stream_id", streamID,
				"error", err)
		}

		if response.Continuation == "" {
			return nil
		}
		continuation = response.Continuation
	}
}

// reconcileItem merges one remote item. Remote state is applied only when no
// outbound entry is in flight for the article and the remote change is not
// older than the last local mutation.
func (s *PullSyncService) reconcileItem(ctx context.Context, item driver.InoreaderArticleItem, blocked map[uuid.UUID]bool, result *PullSyncResult) {
	article, err := s.articleRepo.FindByInoreaderID(ctx, item.ID)
	if errors.Is(err, repository.ErrNotFound) {
		s.insertArticle(ctx, item, result)
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	remote := models.RemoteArticleState{
		Read:      item.IsRead(),
		Starred:   item.IsStarred(),
		UpdatedAt: item.GetUpdatedTime(),
	}

	if !article.ShouldApplyRemote(remote, blocked[article.ID]) {
		result.SkippedArticles++
		s.logger.Debug("Skipped stale remote state",
			"inoreader_id", item.ID,
			"remote_updated", remote.UpdatedAt,
			"last_local_update", article.LastLocalUpdate,
			"pending_outbound", blocked[article.ID])
		return
	}

	if article.Read == remote.Read && article.Starred == remote.Starred {
		return
	}

	if err := s.articleRepo.UpdateRemoteState(ctx, article.ID, remote.Read, remote.Starred); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.UpdatedArticles++
}

func (s *PullSyncService) insertArticle(ctx context.Context, item driver.InoreaderArticleItem, result *PullSyncResult) {
	subscriptionID, ok := s.subsByStream[item.Origin.StreamID]
	if !ok {
		// Article from a stream we have not mirrored yet; next subscription
		// sync will pick it up.
		result.SkippedArticles++
		return
	}

	article := models.NewArticle(item.ID, subscriptionID, item.GetCanonicalURL(), item.Title, item.Author)
	article.Read = item.IsRead()
	article.Starred = item.IsStarred()
	if item.Published > 0 {
		publishedAt := item.GetPublishedTime()
		article.PublishedAt = &publishedAt
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.NewArticles++
}

// refreshAggregates triggers the derived per-feed unread count refresh,
// coalesced so rapid successive deltas produce one recomputation.
func (s *PullSyncService) refreshAggregates(ctx context.Context) {
	if !s.refreshGate.Allow() {
		s.logger.Debug("Aggregate refresh coalesced")
		return
	}

	if err := s.articleRepo.RefreshFeedAggregates(ctx); err != nil {
		s.logger.Error("Failed to refresh feed aggregates", "error", err)
	}
}
