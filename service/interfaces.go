// ABOUTME: Service-layer interfaces over the Inoreader driver
// ABOUTME: Defined at the consumer so workers can be tested against mocks

package service

import (
	"context"

	"sync-hub/driver"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// InoreaderAPI is the slice of the Inoreader client the sync workers consume.
type InoreaderAPI interface {
	FetchSubscriptionList(ctx context.Context) (*driver.SubscriptionListResponse, error)
	FetchUnreadCounts(ctx context.Context) (*driver.UnreadCountResponse, error)
	FetchStreamContents(ctx context.Context, streamID, continuation string, maxItems int, excludeRead bool) (*driver.StreamContentsResponse, error)
	EditTag(ctx context.Context, itemIDs []string, addTag, removeTag string) error
	ValidateAuth(ctx context.Context) error
}
