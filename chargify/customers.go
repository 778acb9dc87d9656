// ABOUTME: Typed helpers for the customer and subscription endpoints used by imports
// ABOUTME: Looks up customers by reference and creates subscriptions
package chargify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/harperreed/clientify/models"
)

// FindCustomerByReference returns the id of the customer with the given
// reference, or "" when the site has no such customer.
func (c *Client) FindCustomerByReference(ctx context.Context, reference string) (string, error) {
	res, err := c.Get(ctx, "/customers/lookup.json", url.Values{"reference": {reference}})
	if err != nil {
		return "", err
	}
	if res.Status == http.StatusNotFound {
		return "", nil
	}
	if err := res.Err(); err != nil {
		return "", err
	}

	return nestedID(res, "customer"), nil
}

// CreateSubscription posts a compiled subscription payload.
func (c *Client) CreateSubscription(ctx context.Context, payload models.Payload) (Result, error) {
	return c.Post(ctx, "/subscriptions.json", payload)
}

// SubscriptionID returns subscription.id from a create-subscription result.
func SubscriptionID(r Result) string {
	return nestedID(r, "subscription")
}

// nestedID reads <key>.id from an object result as a string.
func nestedID(r Result, key string) string {
	obj, ok := r.Object()
	if !ok {
		return ""
	}
	inner, ok := obj[key].(map[string]any)
	if !ok {
		return ""
	}
	id, ok := inner["id"]
	if !ok || id == nil {
		return ""
	}
	return fmt.Sprint(id)
}
