// ABOUTME: Component allocation generator for subscription imports
// ABOUTME: Turns indexed component columns into per-price-point component entries
package generate

import (
	"strings"

	"github.com/harperreed/clientify/models"
)

// Components builds one entry per distinct (component_id, price_point_id)
// pair found in the row's component columns. Columns with a blank value, no
// bracketed id, or no recognised kind are skipped. When the same pair
// appears again the later value replaces the earlier one in place. Returns
// nil when nothing matched.
func Components(row models.Row) []models.Payload {
	var components []models.Payload
	seen := make(map[string]int)

	for _, col := range row {
		if !componentColumn.MatchString(col.Name) {
			continue
		}
		value := strings.TrimSpace(col.Value)
		if value == "" {
			continue
		}

		kind, ok := matchKind(col.Name)
		if !ok {
			continue
		}

		indices := bracketIndices(col.Name, kind.token)
		if len(indices) == 0 {
			continue
		}

		entry := models.Payload{
			"component_id": indices[0],
			kind.field:     kind.coerce(value),
		}
		pricePoint := ""
		if len(indices) > 1 {
			pricePoint = indices[1]
			entry["price_point_id"] = pricePoint
		}

		key := indices[0] + "\x00" + pricePoint
		if i, dup := seen[key]; dup {
			components[i] = entry
			continue
		}
		seen[key] = len(components)
		components = append(components, entry)
	}

	return components
}
