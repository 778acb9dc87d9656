// ABOUTME: Metafield generator for customer and subscription payloads
// ABOUTME: Collects <type>_metafield[key] columns into a key/value mapping
package generate

import (
	"strings"

	"github.com/harperreed/clientify/models"
)

// Metafield scopes.
const (
	MetafieldsCustomer     = "customer"
	MetafieldsSubscription = "subscription"
)

// Metafields collects every "<scope>_metafield[key]" column of the row into a
// key/value mapping. Later columns win on key collisions. Returns nil when no
// column matched.
func Metafields(row models.Row, scope string) models.Payload {
	marker := scope + "_metafield"

	var fields models.Payload
	for _, col := range row {
		if !strings.Contains(col.Name, marker) {
			continue
		}
		value := strings.TrimSpace(col.Value)
		if value == "" {
			continue
		}
		key, ok := metafieldKey(col.Name)
		if !ok {
			continue
		}
		if fields == nil {
			fields = models.Payload{}
		}
		fields[key] = value
	}

	return fields
}
