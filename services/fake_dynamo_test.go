package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"golfmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

// tableKeys is the key schema of every table the services touch; the second
// attribute, when present, is the sort key.
var tableKeys = map[string][]string{
	models.UserProfilesTable: {"userId"},
	models.InteractionsTable: {"PK", "SK"},
	models.MatchesTable:      {"matchId"},
	models.ChannelsTable:     {"matchId"},
	models.MessagesTable:     {"channelId", "createdAt"},
}

// fakeDynamoClient is an in-memory DynamoAPI that understands the expression
// shapes the services issue: plain and attribute_not_exists puts, "field =
// :param" key conditions, SET updates, and scans with <> exclude filters.
type fakeDynamoClient struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	errOn  func(op, table string) error

	// beforePut runs before PutItem takes the table lock; tests use it to
	// interleave a rival write.
	beforePut func(table string)
}

func newFakeDynamo() *fakeDynamoClient {
	return &fakeDynamoClient{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func newTestDynamo() (*DynamoService, *fakeDynamoClient) {
	client := newFakeDynamo()
	return &DynamoService{Client: client}, client
}

func stringAttr(attr types.AttributeValue) string {
	if s, ok := attr.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamoClient) itemKey(table string, attrs map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeys[table] {
		parts = append(parts, stringAttr(attrs[attr]))
	}
	return strings.Join(parts, "|")
}

func (f *fakeDynamoClient) rowsLocked(table string) map[string]map[string]types.AttributeValue {
	rows := f.tables[table]
	if rows == nil {
		rows = make(map[string]map[string]types.AttributeValue)
		f.tables[table] = rows
	}
	return rows
}

func (f *fakeDynamoClient) fail(op, table string) error {
	if f.errOn != nil {
		return f.errOn(op, table)
	}
	return nil
}

// seed stores value directly, bypassing the service layer
func (f *fakeDynamoClient) seed(t *testing.T, table string, value interface{}) {
	t.Helper()
	item, err := attributevalue.MarshalMap(value)
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowsLocked(table)[f.itemKey(table, item)] = item
}

func (f *fakeDynamoClient) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("PutItem", table); err != nil {
		return nil, err
	}
	if f.beforePut != nil {
		f.beforePut(table)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rowsLocked(table)
	key := f.itemKey(table, params.Item)

	// The only condition the services use is attribute_not_exists on the key.
	if params.ConditionExpression != nil {
		if _, exists := rows[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	rows[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("GetItem", table); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.tables[table][f.itemKey(table, params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("UpdateItem", table); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rowsLocked(table)
	key := f.itemKey(table, params.Key)
	item, ok := rows[key]
	if !ok {
		item = copyItem(params.Key)
		rows[key] = item
	}

	expr := strings.TrimPrefix(aws.ToString(params.UpdateExpression), "SET ")
	for _, assignment := range strings.Split(expr, ",") {
		sides := strings.SplitN(strings.TrimSpace(assignment), " = ", 2)
		if len(sides) != 2 {
			continue
		}
		field := sides[0]
		if resolved, ok := params.ExpressionAttributeNames[field]; ok {
			field = resolved
		}
		item[field] = params.ExpressionAttributeValues[sides[1]]
	}
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("DeleteItem", table); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tables[table], f.itemKey(table, params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("Query", table); err != nil {
		return nil, err
	}

	sides := strings.SplitN(aws.ToString(params.KeyConditionExpression), " = ", 2)
	if len(sides) != 2 {
		return &dynamodb.QueryOutput{}, nil
	}
	field := strings.TrimSpace(sides[0])
	if resolved, ok := params.ExpressionAttributeNames[field]; ok {
		field = resolved
	}
	want := stringAttr(params.ExpressionAttributeValues[strings.TrimSpace(sides[1])])

	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.tables[table] {
		if stringAttr(item[field]) == want {
			items = append(items, copyItem(item))
		}
	}

	if keys := tableKeys[table]; len(keys) == 2 {
		sortField := keys[1]
		sort.Slice(items, func(i, j int) bool {
			return stringAttr(items[i][sortField]) < stringAttr(items[j][sortField])
		})
		if params.ScanIndexForward != nil && !*params.ScanIndexForward {
			for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
				items[i], items[j] = items[j], items[i]
			}
		}
	}
	if params.Limit != nil && len(items) > int(*params.Limit) {
		items = items[:int(*params.Limit)]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	table := aws.ToString(params.TableName)
	if err := f.fail("Scan", table); err != nil {
		return nil, err
	}

	// The services only build "#field <> :field" exclude filters; reconstruct
	// the pairs from the attribute maps.
	exclude := map[string]string{}
	for name, field := range params.ExpressionAttributeNames {
		if value, ok := params.ExpressionAttributeValues[":"+strings.TrimPrefix(name, "#")]; ok {
			exclude[field] = stringAttr(value)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.tables[table] {
		skip := false
		for field, value := range exclude {
			if stringAttr(item[field]) == value {
				skip = true
				break
			}
		}
		if !skip {
			items = append(items, copyItem(item))
		}
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

// capturingFeed records every published match event
type capturingFeed struct {
	mu     sync.Mutex
	events []models.MatchInsertEvent
}

func (f *capturingFeed) Publish(event models.MatchInsertEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *capturingFeed) published() []models.MatchInsertEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MatchInsertEvent, len(f.events))
	copy(out, f.events)
	return out
}
