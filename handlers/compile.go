// ABOUTME: Payload compiler MCP tool handlers
// ABOUTME: Implements compile_subscription, compile_customer, compile_payment_profile, extract_components and extract_metafields
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/clientify/generate"
	"github.com/harperreed/clientify/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CompileHandlers struct{}

func NewCompileHandlers() *CompileHandlers {
	return &CompileHandlers{}
}

type ColumnInput struct {
	Name  string `json:"name" jsonschema:"Column header"`
	Value string `json:"value" jsonschema:"Cell value"`
}

// RowInput is one import row. Columns keeps header order and wins over Row
// when both are given.
type RowInput struct {
	Row     map[string]string `json:"row,omitempty" jsonschema:"Column name to cell value for one import row"`
	Columns []ColumnInput     `json:"columns,omitempty" jsonschema:"Ordered columns of the row; later columns win when several map to the same field"`
	Live    bool              `json:"live,omitempty" jsonschema:"Compile for a live site; default is test mode, which redacts emails and forces the bogus vault on rows that carry payment_profile_* data"`
}

func (in RowInput) toRow() (models.Row, error) {
	return buildRow(in.Row, in.Columns)
}

func buildRow(values map[string]string, columns []ColumnInput) (models.Row, error) {
	if len(columns) > 0 {
		row := make(models.Row, 0, len(columns))
		for _, col := range columns {
			row = append(row, models.Column{Name: col.Name, Value: col.Value})
		}
		return row, nil
	}
	if len(values) > 0 {
		return models.RowFromMap(values), nil
	}
	return nil, fmt.Errorf("row or columns is required")
}

type CompileSubscriptionInput struct {
	Row               map[string]string `json:"row,omitempty" jsonschema:"Column name to cell value for one import row"`
	Columns           []ColumnInput     `json:"columns,omitempty" jsonschema:"Ordered columns of the row; later columns win when several map to the same field"`
	Live              bool              `json:"live,omitempty" jsonschema:"Compile for a live site; default is test mode, which redacts emails and forces the bogus vault on rows that carry payment_profile_* data"`
	CustomerID        string            `json:"customer_id,omitempty" jsonschema:"Existing customer id; suppresses inline customer_attributes"`
	CustomerReference string            `json:"customer_reference,omitempty" jsonschema:"Existing customer reference to attach the subscription to"`
}

type PayloadOutput struct {
	Payload models.Payload `json:"payload"`
	Empty   bool           `json:"empty"`
}

func (h *CompileHandlers) CompileSubscription(_ context.Context, request *mcp.CallToolRequest, input CompileSubscriptionInput) (*mcp.CallToolResult, PayloadOutput, error) {
	row, err := buildRow(input.Row, input.Columns)
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	payload := generate.Subscription(row, generate.SubscriptionOptions{
		CustomerID:        input.CustomerID,
		CustomerReference: input.CustomerReference,
		Test:              !input.Live,
	})
	return nil, payloadOutput(payload), nil
}

func (h *CompileHandlers) CompileCustomer(_ context.Context, request *mcp.CallToolRequest, input RowInput) (*mcp.CallToolResult, PayloadOutput, error) {
	row, err := input.toRow()
	if err != nil {
		return nil, PayloadOutput{}, err
	}
	return nil, payloadOutput(generate.Customer(row, !input.Live)), nil
}

func (h *CompileHandlers) CompilePaymentProfile(_ context.Context, request *mcp.CallToolRequest, input RowInput) (*mcp.CallToolResult, PayloadOutput, error) {
	row, err := input.toRow()
	if err != nil {
		return nil, PayloadOutput{}, err
	}
	return nil, payloadOutput(generate.PaymentProfile(row, !input.Live)), nil
}

type ComponentsOutput struct {
	Components []models.Payload `json:"components"`
	Count      int              `json:"count"`
}

func (h *CompileHandlers) ExtractComponents(_ context.Context, request *mcp.CallToolRequest, input RowInput) (*mcp.CallToolResult, ComponentsOutput, error) {
	row, err := input.toRow()
	if err != nil {
		return nil, ComponentsOutput{}, err
	}

	components := generate.Components(row)
	if components == nil {
		components = []models.Payload{}
	}
	return nil, ComponentsOutput{Components: components, Count: len(components)}, nil
}

type ExtractMetafieldsInput struct {
	Row     map[string]string `json:"row,omitempty" jsonschema:"Column name to cell value for one import row"`
	Columns []ColumnInput     `json:"columns,omitempty" jsonschema:"Ordered columns of the row"`
	Scope   string            `json:"scope" jsonschema:"Metafield scope: customer or subscription"`
}

func (h *CompileHandlers) ExtractMetafields(_ context.Context, request *mcp.CallToolRequest, input ExtractMetafieldsInput) (*mcp.CallToolResult, PayloadOutput, error) {
	if input.Scope != generate.MetafieldsCustomer && input.Scope != generate.MetafieldsSubscription {
		return nil, PayloadOutput{}, fmt.Errorf("scope must be %q or %q", generate.MetafieldsCustomer, generate.MetafieldsSubscription)
	}

	row, err := buildRow(input.Row, input.Columns)
	if err != nil {
		return nil, PayloadOutput{}, err
	}
	return nil, payloadOutput(generate.Metafields(row, input.Scope)), nil
}

func payloadOutput(p models.Payload) PayloadOutput {
	if p == nil {
		return PayloadOutput{Payload: models.Payload{}, Empty: true}
	}
	return PayloadOutput{Payload: p}
}
