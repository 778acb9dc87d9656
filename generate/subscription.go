// ABOUTME: Subscription payload generator, the top-level import request body
// ABOUTME: Embeds customer, payment profile, components, and metafields under a subscription envelope
package generate

import (
	"github.com/harperreed/clientify/models"
)

// SubscriptionOptions carries the caller-supplied inputs that are not part of the row.
type SubscriptionOptions struct {
	// CustomerID references an existing customer. When set, no inline
	// customer_attributes are generated.
	CustomerID        string
	CustomerReference string
	// Test redacts emails and vault identity. CLI and MCP callers default to true.
	Test bool
}

// subscriptionFields maps output keys to their source columns.
var subscriptionFields = []struct{ key, column string }{
	{"payment_collection_method", "payment_collection_method"},
	{"coupon_code", "coupon_code"},
	{"next_billing_at", "next_billing_at"},
	{"previous_billing_at", "previous_billing_at"},
	{"reference", "subscription_reference"},
	{"product_id", "product_id"},
	{"product_price_point", "product_price_point"},
	{"net_terms", "net_terms"},
	{"currency", "currency"},
	{"receives_invoice_emails", "receives_invoice_emails"},
}

// Subscription builds the create-subscription request body for a row. Hierarchical
// customer structures are not handled. The result is always wrapped as
// {"subscription": {...}} and import_mrr is always true.
func Subscription(row models.Row, opts SubscriptionOptions) models.Payload {
	sub := make(models.Payload, len(subscriptionFields)+8)
	for _, f := range subscriptionFields {
		sub[f.key] = row.Get(f.column)
	}

	sub["import_mrr"] = true
	sub["customer_id"] = opts.CustomerID
	sub["customer_reference"] = opts.CustomerReference
	if opts.CustomerID == "" {
		sub["customer_attributes"] = Customer(row, opts.Test)
	}
	sub["components"] = Components(row)
	sub["payment_profile_attributes"] = PaymentProfile(row, opts.Test)
	sub["metafields"] = Metafields(row, MetafieldsSubscription)

	return models.Payload{"subscription": CompactPayload(sub)}
}
