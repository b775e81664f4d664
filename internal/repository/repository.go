// Package repository provides read-only access to customer and interaction
// records stored in DynamoDB.
//
// Records are created by an external bootstrap loader; at runtime this
// package never mutates or deletes them. Customers are keyed by customer_id;
// interactions use the composite key (customer_id, date), where the sortable
// date string serves as the range key for most-recent-first queries.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/crmgate/crmgate/internal/model"
)

// CustomerIDAttr is the partition key attribute name on both tables.
const CustomerIDAttr = "customer_id"

// DateAttr is the sort key attribute name on the interactions table. It is a
// DynamoDB reserved word and must be aliased in every expression.
const DateAttr = "date"

// Common errors for repository operations.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
	ErrInvalidField     = errors.New("field name is not a legal customer attribute")
)

// API is the subset of the DynamoDB client used by [Repository].
// It allows mocks to be injected in tests.
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Repository reads customer and interaction records from DynamoDB.
//
// Repository is safe for concurrent use by multiple goroutines.
type Repository struct {
	client           API
	customerTable    string
	interactionTable string
}

// New creates a Repository over the given tables. Supply [WithAPI] to inject
// a custom or mock DynamoDB client.
func New(awsCfg *aws.Config, customerTable, interactionTable string, opts ...Option) *Repository {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	r := &Repository{
		client:           options.api,
		customerTable:    customerTable,
		interactionTable: interactionTable,
	}
	if r.client == nil {
		r.client = dynamodb.NewFromConfig(*awsCfg)
	}

	return r
}

// Ping checks connectivity to the store by describing the customers table.
func (r *Repository) Ping(ctx context.Context) error {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(r.customerTable),
	}

	if _, err := r.client.DescribeTable(ctx, input); err != nil {
		return fmt.Errorf("failed to describe table %s: %w", r.customerTable, err)
	}

	return nil
}

// RecentInteractions returns up to limit interactions for customerID,
// most recent first. A customer with no interactions yields an empty slice,
// not an error. limit must be positive; otherwise [ErrInvalidLimit] is
// returned.
func (r *Repository) RecentInteractions(ctx context.Context, customerID string, limit int) ([]model.Interaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.interactionTable),
		ScanIndexForward:       aws.Bool(false),
		Limit:                  aws.Int32(int32(limit)),
		KeyConditionExpression: aws.String(CustomerIDAttr + " = :customer_id"),
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":customer_id": &dynamodbtypes.AttributeValueMemberS{Value: customerID},
		},
		ProjectionExpression:     aws.String("#interaction_date, notes"),
		ExpressionAttributeNames: map[string]string{"#interaction_date": DateAttr},
	}

	output, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions for customer %s: %w", customerID, err)
	}

	interactions := make([]model.Interaction, 0, len(output.Items))
	if len(output.Items) > 0 {
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &interactions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interactions for customer %s: %w", customerID, err)
		}
	}

	return interactions, nil
}

// CustomerFields returns the requested attribute projection for the customer
// with the given ID. Field names are validated against
// [model.CustomerFieldNames]; an unknown name yields [ErrInvalidField].
// A missing customer yields [ErrCustomerNotFound], which is distinct from an
// existing customer for which none of the requested attributes are set (an
// empty map).
func (r *Repository) CustomerFields(ctx context.Context, customerID string, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty projection", ErrInvalidField)
	}

	names := make(map[string]string, len(fields))
	aliases := make([]string, 0, len(fields))

	for i, field := range fields {
		if !slices.Contains(model.CustomerFieldNames, field) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, field)
		}

		alias := fmt.Sprintf("#f%d", i)
		names[alias] = field
		aliases = append(aliases, alias)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.customerTable),
		Key: map[string]dynamodbtypes.AttributeValue{
			CustomerIDAttr: &dynamodbtypes.AttributeValueMemberS{Value: customerID},
		},
		ProjectionExpression:     aws.String(strings.Join(aliases, ", ")),
		ExpressionAttributeNames: names,
	}

	output, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}

	if output.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}

	projection := make(map[string]any, len(output.Item))
	if err := attributevalue.UnmarshalMap(output.Item, &projection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer %s: %w", customerID, err)
	}

	return projection, nil
}

// CustomerOverview returns the customer's overview object. Both a missing
// customer and a customer without an overview collapse to an empty object;
// neither case is an error.
func (r *Repository) CustomerOverview(ctx context.Context, customerID string) (map[string]any, error) {
	fields, err := r.CustomerFields(ctx, customerID, []string{model.FieldOverview})
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	overview, ok := fields[model.FieldOverview].(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}

	return overview, nil
}

// CustomerPreferences returns the customer's meeting preference projection
// (meetingType, timeOfDay, dayOfWeek). A missing customer yields
// [ErrCustomerNotFound].
func (r *Repository) CustomerPreferences(ctx context.Context, customerID string) (map[string]any, error) {
	return r.CustomerFields(ctx, customerID, model.PreferenceFieldNames)
}
