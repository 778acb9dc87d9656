// ABOUTME: Payment profile payload generator for card vault imports
// ABOUTME: Maps payment_profile_* columns and forces bogus vault identity in test mode
package generate

import (
	"github.com/harperreed/clientify/models"
)

// Vault identity used for every payment profile compiled in test mode.
const (
	TestVault      = "bogus"
	TestVaultToken = 1
)

const paymentProfilePrefix = "payment_profile_"

var paymentProfileFields = []string{
	"first_name",
	"last_name",
	"full_number",
	"cvv",
	"last_four",
	"card_type",
	"expiration_month",
	"expiration_year",
	"billing_address",
	"billing_address_2",
	"billing_city",
	"billing_state",
	"billing_country",
	"billing_zip",
	"current_vault",
	"vault_token",
	"customer_vault_token",
}

// PaymentProfile builds the card-on-file attributes for a row. In test mode
// current_vault, vault_token and customer_vault_token are always the bogus
// gateway values, whatever the row says. A row with no payment_profile_*
// data yields nil in either mode.
func PaymentProfile(row models.Row, test bool) models.Payload {
	if !row.HasPrefix(paymentProfilePrefix) {
		return nil
	}

	pp := make(models.Payload, len(paymentProfileFields))
	for _, field := range paymentProfileFields {
		pp[field] = row.Get(paymentProfilePrefix + field)
	}

	if test {
		pp["current_vault"] = TestVault
		pp["vault_token"] = TestVaultToken
		pp["customer_vault_token"] = TestVaultToken
	}

	return CompactPayload(pp)
}
