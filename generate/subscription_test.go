// ABOUTME: Tests for customer, payment profile, and subscription generators
// ABOUTME: Covers test-mode redaction, omission rules, and customer exclusivity
package generate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/clientify/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRow() models.Row {
	return models.Row{
		{Name: "customer_first_name", Value: "Alice"},
		{Name: "customer_last_name", Value: "Smith"},
		{Name: "customer_email", Value: "alice@corp.io"},
		{Name: "customer_reference", Value: "cust-001"},
		{Name: "customer_metafield[Segment]", Value: "smb"},
		{Name: "payment_profile_first_name", Value: "Alice"},
		{Name: "payment_profile_last_four", Value: "4242"},
		{Name: "payment_profile_current_vault", Value: "stripe_connect"},
		{Name: "payment_profile_vault_token", Value: "cus_live_123"},
		{Name: "payment_profile_customer_vault_token", Value: "card_live_456"},
		{Name: "product_id", Value: "5501"},
		{Name: "subscription_reference", Value: "sub-001"},
		{Name: "next_billing_at", Value: "2026-11-01"},
		{Name: "component[9][2][on_off]", Value: "1"},
		{Name: "subscription_metafield[Sales Rep]", Value: "Dana"},
	}
}

func TestRedactEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"alice@corp.io", "alice@corp.example.com"},
		{"james@gmail.com", "james@gmail.example.com"},
		{"ann@mail.corp.co.uk", "ann@mail.corp.example.com"},
		{"root@localhost", "root@localhost.example.com"},
		{"not-an-email", "not-an-email@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}

func TestCustomerTestModeRedactsEmail(t *testing.T) {
	cust := Customer(fullRow(), true)

	require.NotNil(t, cust)
	email, ok := cust["email"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(email, ".example.com"))
	assert.True(t, strings.HasPrefix(email, "alice@"))
	assert.Equal(t, "Alice", cust["first_name"])
	assert.Equal(t, "cust-001", cust["reference"])
	assert.Equal(t, models.Payload{"Segment": "smb"}, cust["metafields"])
}

func TestCustomerLiveModeKeepsEmail(t *testing.T) {
	cust := Customer(fullRow(), false)

	assert.Equal(t, "alice@corp.io", cust["email"])
}

func TestCustomerEmptyRow(t *testing.T) {
	assert.Nil(t, Customer(models.Row{}, true))
	assert.Nil(t, Customer(models.Row{{Name: "customer_city", Value: " "}}, true))
}

func TestPaymentProfileTestModeForcesVault(t *testing.T) {
	pp := PaymentProfile(fullRow(), true)

	require.NotNil(t, pp)
	assert.Equal(t, "bogus", pp["current_vault"])
	assert.Equal(t, 1, pp["vault_token"])
	assert.Equal(t, 1, pp["customer_vault_token"])
	assert.Equal(t, "4242", pp["last_four"])
}

func TestPaymentProfileTestModeWithoutVaultColumns(t *testing.T) {
	row := models.Row{{Name: "payment_profile_last_four", Value: "1111"}}

	pp := PaymentProfile(row, true)

	assert.Equal(t, models.Payload{
		"last_four":            "1111",
		"current_vault":        "bogus",
		"vault_token":          1,
		"customer_vault_token": 1,
	}, pp)
}

func TestPaymentProfileLiveModeKeepsVault(t *testing.T) {
	pp := PaymentProfile(fullRow(), false)

	assert.Equal(t, "stripe_connect", pp["current_vault"])
	assert.Equal(t, "cus_live_123", pp["vault_token"])
	assert.Equal(t, "card_live_456", pp["customer_vault_token"])
}

func TestPaymentProfileEmptyRow(t *testing.T) {
	assert.Nil(t, PaymentProfile(models.Row{}, true))
	assert.Nil(t, PaymentProfile(models.Row{}, false))
}

func TestSubscriptionEmptyRow(t *testing.T) {
	for _, test := range []bool{true, false} {
		payload := Subscription(models.Row{}, SubscriptionOptions{Test: test})

		assert.Equal(t, models.Payload{"subscription": models.Payload{"import_mrr": true}}, payload)
	}
}

func TestSubscriptionEmptyRowJSON(t *testing.T) {
	payload := Subscription(models.Row{{Name: "coupon_code", Value: ""}}, SubscriptionOptions{Test: true})

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subscription":{"import_mrr":true}}`, string(data))
}

func TestSubscriptionWithInlineCustomer(t *testing.T) {
	payload := Subscription(fullRow(), SubscriptionOptions{Test: true})

	sub, ok := payload["subscription"].(models.Payload)
	require.True(t, ok)
	assert.Equal(t, true, sub["import_mrr"])
	assert.Equal(t, "5501", sub["product_id"])
	assert.Equal(t, "sub-001", sub["reference"])
	assert.Contains(t, sub, "customer_attributes")
	assert.NotContains(t, sub, "customer_id")
	assert.Contains(t, sub, "payment_profile_attributes")
	assert.Equal(t, models.Payload{"Sales Rep": "Dana"}, sub["metafields"])

	components, ok := sub["components"].([]models.Payload)
	require.True(t, ok)
	require.Len(t, components, 1)
	assert.Equal(t, true, components[0]["enabled"])
}

func TestSubscriptionWithCustomerID(t *testing.T) {
	payload := Subscription(fullRow(), SubscriptionOptions{
		CustomerID:        "123456",
		CustomerReference: "cust-001",
		Test:              true,
	})

	sub := payload["subscription"].(models.Payload)
	assert.Equal(t, "123456", sub["customer_id"])
	assert.Equal(t, "cust-001", sub["customer_reference"])
	assert.NotContains(t, sub, "customer_attributes")
}

func TestSubscriptionJSONShape(t *testing.T) {
	payload := Subscription(fullRow(), SubscriptionOptions{Test: true})

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	sub := decoded["subscription"].(map[string]any)
	pp := sub["payment_profile_attributes"].(map[string]any)
	assert.Equal(t, "bogus", pp["current_vault"])
	assert.Equal(t, float64(1), pp["vault_token"])

	cust := sub["customer_attributes"].(map[string]any)
	assert.Equal(t, "alice@corp.example.com", cust["email"])
}
