// ABOUTME: Tests for component and metafield extraction from indexed columns
// ABOUTME: Covers kind detection, coercion rules, skipped columns, and key collisions
package generate

import (
	"testing"

	"github.com/harperreed/clientify/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentsNoComponentColumns(t *testing.T) {
	row := models.Row{
		{Name: "customer_first_name", Value: "Alice"},
		{Name: "product_id", Value: "42"},
	}

	components := Components(row)

	assert.Nil(t, components)
}

func TestComponentsOnOff(t *testing.T) {
	tests := []struct {
		value   string
		enabled bool
	}{
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"Off", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			row := models.Row{{Name: "component[9][2][on_off]", Value: tt.value}}

			components := Components(row)

			require.Len(t, components, 1)
			assert.Equal(t, models.Payload{
				"component_id":   "9",
				"price_point_id": "2",
				"enabled":        tt.enabled,
			}, components[0])
		})
	}
}

func TestComponentsMetered(t *testing.T) {
	row := models.Row{
		{Name: "component[9][2][metered]", Value: "3.5"},
		{Name: "component_id[10][3][metered]", Value: "abc"},
	}

	components := Components(row)

	require.Len(t, components, 2)
	assert.Equal(t, 3.5, components[0]["unit_balance"])
	assert.Equal(t, 0.0, components[1]["unit_balance"])
	assert.Equal(t, "10", components[1]["component_id"])
	assert.Equal(t, "3", components[1]["price_point_id"])
}

func TestComponentsQuantity(t *testing.T) {
	row := models.Row{{Name: "component_id[101][55][quantity]", Value: "12"}}

	components := Components(row)

	require.Len(t, components, 1)
	assert.Equal(t, 12.0, components[0]["allocated_quantity"])
	assert.NotContains(t, components[0], "enabled")
	assert.NotContains(t, components[0], "unit_balance")
}

func TestComponentsKeepOpaqueIdentifiers(t *testing.T) {
	row := models.Row{{Name: "component[007][pp-basic][on_off]", Value: "1"}}

	components := Components(row)

	require.Len(t, components, 1)
	assert.Equal(t, "007", components[0]["component_id"])
	assert.Equal(t, "pp-basic", components[0]["price_point_id"])
}

func TestComponentsSkipsMalformedColumns(t *testing.T) {
	row := models.Row{
		{Name: "component[9][2][on_off]", Value: ""},
		{Name: "component[9][2][on_off]", Value: "   "},
		{Name: "component_id_on_off", Value: "1"},
		{Name: "component[9][2][unknown]", Value: "1"},
		{Name: "component[][][metered]", Value: "4"},
	}

	assert.Nil(t, Components(row))
}

func TestComponentsWithoutPricePoint(t *testing.T) {
	row := models.Row{{Name: "component_id[77][quantity]", Value: "2"}}

	components := Components(row)

	require.Len(t, components, 1)
	assert.Equal(t, models.Payload{"component_id": "77", "allocated_quantity": 2.0}, components[0])
}

func TestComponentsCollapseRepeatedPairs(t *testing.T) {
	row := models.Row{
		{Name: "component[1][1][quantity]", Value: "1"},
		{Name: "component[2][1][quantity]", Value: "5"},
		{Name: "component[1][1][quantity]", Value: "3"},
	}

	components := Components(row)

	require.Len(t, components, 2)
	assert.Equal(t, "1", components[0]["component_id"])
	assert.Equal(t, 3.0, components[0]["allocated_quantity"])
	assert.Equal(t, "2", components[1]["component_id"])
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 3.5, parseNumber("3.5"))
	assert.Equal(t, 12.0, parseNumber(" 12 units"))
	assert.Equal(t, -2.0, parseNumber("-2"))
	assert.Equal(t, 0.5, parseNumber(".5"))
	assert.Equal(t, 1000.0, parseNumber("1e3"))
	assert.Equal(t, 0.0, parseNumber("abc"))
	assert.Equal(t, 0.0, parseNumber("NaN"))
	assert.Equal(t, 0.0, parseNumber("1e999"))
}

func TestMetafields(t *testing.T) {
	row := models.Row{
		{Name: "customer_metafield[Plan Tier]", Value: "gold"},
		{Name: "subscription_metafield[Sales Rep]", Value: "Dana"},
		{Name: "customer_metafield[Region]", Value: "EMEA"},
		{Name: "customer_metafield[Region]", Value: "APAC"},
		{Name: "customer_metafield[Empty]", Value: ""},
		{Name: "customer_metafield[]", Value: "ignored"},
	}

	customer := Metafields(row, MetafieldsCustomer)
	subscription := Metafields(row, MetafieldsSubscription)

	assert.Equal(t, models.Payload{"Plan Tier": "gold", "Region": "APAC"}, customer)
	assert.Equal(t, models.Payload{"Sales Rep": "Dana"}, subscription)
}

func TestMetafieldsNone(t *testing.T) {
	row := models.Row{{Name: "customer_first_name", Value: "Alice"}}

	assert.Nil(t, Metafields(row, MetafieldsCustomer))
}
