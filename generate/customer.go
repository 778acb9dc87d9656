// ABOUTME: Customer payload generator with test-mode email redaction
// ABOUTME: Maps customer_* columns onto the create-customer request body
package generate

import (
	"strings"

	"github.com/harperreed/clientify/models"
)

// placeholderDomain replaces the real mail domain in test mode.
const placeholderDomain = "example.com"

var customerFields = []string{
	"first_name",
	"last_name",
	"reference",
	"email",
	"organization",
	"address",
	"address_2",
	"city",
	"state",
	"zip",
	"country",
	"phone",
	"vat_number",
}

// Customer builds the customer attributes for a row. In test mode the email
// is rewritten with RedactEmail so no real customer receives mail. Returns
// nil when the row carries no customer data.
func Customer(row models.Row, test bool) models.Payload {
	cust := make(models.Payload, len(customerFields)+1)
	for _, field := range customerFields {
		cust[field] = row.Get("customer_" + field)
	}

	if email, ok := row.Lookup("customer_email"); ok && test {
		cust["email"] = RedactEmail(email)
	}

	cust["metafields"] = Metafields(row, MetafieldsCustomer)

	return CompactPayload(cust)
}

// RedactEmail keeps the local part and the leading domain labels of an
// address but moves it under example.com, e.g. james@gmail.com becomes
// james@gmail.example.com and ann@mail.corp.co.uk becomes
// ann@mail.corp.example.com.
func RedactEmail(email string) string {
	local, domain, found := strings.Cut(strings.TrimSpace(email), "@")
	if !found || domain == "" {
		return local + "@" + placeholderDomain
	}

	labels := strings.Split(domain, ".")
	if len(labels) > 1 {
		labels = labels[:len(labels)-1]
	}
	if len(labels) > 2 {
		labels = labels[:2]
	}

	return local + "@" + strings.Join(labels, ".") + "." + placeholderDomain
}
