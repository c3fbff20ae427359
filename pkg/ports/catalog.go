package ports

import "github.com/aretw0/silverconnect/pkg/domain"

// Notification template categories. A notification check draws one template from each.
var NotificationCategories = []string{"chat", "reminder", "community", "wellness", "event", "quote"}

// CatalogProvider is a read-only source of catalog records.
// Implementations must return copies; callers may mutate the returned slices.
type CatalogProvider interface {
	Activities() []domain.Activity
	Communities() []domain.Community
	People() []domain.Person
	Users() []domain.UserRecord
	NotificationTemplates() map[string][]string
}
