package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"thriveup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeTableKeys declares each table's key schema so the fake can build
// composite keys the same way the real tables do.
var fakeTableKeys = map[string][]string{
	models.ThreadsTable:          {"threadId"},
	models.MessagesTable:         {"threadId", "createdAt"},
	models.GroupsTable:           {"groupId"},
	models.GroupMembersTable:     {"groupId", "userId"},
	models.GroupMessagesTable:    {"groupId", "createdAt"},
	models.FriendRequestsTable:   {"toUserId", "createdAt"},
	models.FriendshipsTable:      {"userId", "friendId"},
	models.HackathonTeamsTable:   {"teamId"},
	models.TeamJoinRequestsTable: {"teamId", "createdAt"},
	models.NotificationsTable:    {"userId", "createdAt"},
	models.UserProfilesTable:     {"userId"},
}

// fakeDynamo is an in-memory DynamoAPI good enough for the condition
// expressions and key queries the services actually issue.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// failTransact makes the next TransactWriteItems fail without
	// applying anything.
	failTransact error
	// failOnValue fails any query whose expression values include the
	// given string.
	failOnValue map[string]error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:      make(map[string]map[string]map[string]types.AttributeValue),
		failOnValue: make(map[string]error),
	}
}

func attrString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return fmt.Sprintf("%v", v.Value)
	default:
		return ""
	}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return f.tables[name]
}

func (f *fakeDynamo) compositeKey(tableName string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range fakeTableKeys[tableName] {
		parts = append(parts, attrString(item[attr]))
	}
	return strings.Join(parts, "|")
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(tableName)[f.compositeKey(tableName, key)]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(tableName)[f.compositeKey(tableName, marshaled)] = marshaled
	return nil
}

func (f *fakeDynamo) PutItemWithCondition(ctx context.Context, tableName string, item interface{}, condition string, expressionAttributeNames map[string]string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := f.compositeKey(tableName, marshaled)
	if strings.HasPrefix(condition, "attribute_not_exists(") {
		if _, exists := f.table(tableName)[key]; exists {
			return &types.ConditionalCheckFailedException{}
		}
	}
	f.table(tableName)[key] = marshaled
	return nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	return f.UpdateItemWithCondition(ctx, tableName, updateExpression, "", key, expressionAttributeValues, expressionAttributeNames)
}

var listAppendRe = regexp.MustCompile(`^list_append\((\w+), (:\w+)\)$`)

// splitTopLevel splits a SET expression list on ", " only at paren
// depth zero, so list_append(attr, :value) stays one clause.
func splitTopLevel(s string) []string {
	var clauses []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 && i+1 < len(s) && s[i+1] == ' ' {
				clauses = append(clauses, s[start:i])
				i++
				start = i + 1
			}
		}
	}
	return append(clauses, s[start:])
}

func (f *fakeDynamo) UpdateItemWithCondition(ctx context.Context, tableName string, updateExpression string, condition string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ck := f.compositeKey(tableName, key)
	item, ok := f.table(tableName)[ck]
	if !ok {
		item = copyItem(key)
		f.table(tableName)[ck] = item
	}

	if condition != "" {
		ok, err := evalCondition(condition, item, expressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	clauses := splitTopLevel(strings.TrimPrefix(updateExpression, "SET "))
	for _, clause := range clauses {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported update clause: %s", clause)
		}
		attr := parts[0]
		if resolved, ok := expressionAttributeNames[attr]; ok {
			attr = resolved
		}

		rhs := parts[1]
		if m := listAppendRe.FindStringSubmatch(rhs); m != nil {
			existing, _ := item[m[1]].(*types.AttributeValueMemberL)
			addition, _ := expressionAttributeValues[m[2]].(*types.AttributeValueMemberL)
			if existing == nil || addition == nil {
				return nil, fmt.Errorf("list_append on non-list attribute %s", m[1])
			}
			merged := append(append([]types.AttributeValue{}, existing.Value...), addition.Value...)
			item[m[1]] = &types.AttributeValueMemberL{Value: merged}
			continue
		}

		value, ok := expressionAttributeValues[rhs]
		if !ok {
			return nil, fmt.Errorf("missing expression value %s", rhs)
		}
		item[attr] = value
	}

	return copyItem(item), nil
}

// evalCondition supports the one compound condition the services use:
// a size(<list>) < <numberAttr> bound plus a NOT contains membership
// check.
func evalCondition(condition string, item map[string]types.AttributeValue, values map[string]types.AttributeValue) (bool, error) {
	for _, clause := range strings.Split(condition, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "size("):
			inner := strings.TrimPrefix(clause, "size(")
			listAttr := inner[:strings.Index(inner, ")")]
			boundAttr := strings.TrimSpace(inner[strings.Index(inner, "<")+1:])
			list, _ := item[listAttr].(*types.AttributeValueMemberL)
			bound, _ := item[boundAttr].(*types.AttributeValueMemberN)
			if list == nil || bound == nil {
				return false, fmt.Errorf("size clause on missing attributes: %s", clause)
			}
			var max int
			fmt.Sscanf(bound.Value, "%d", &max)
			if len(list.Value) >= max {
				return false, nil
			}
		case strings.HasPrefix(clause, "NOT contains("):
			inner := strings.TrimSuffix(strings.TrimPrefix(clause, "NOT contains("), ")")
			parts := strings.SplitN(inner, ", ", 2)
			list, _ := item[parts[0]].(*types.AttributeValueMemberL)
			needle := attrString(values[parts[1]])
			if list == nil {
				return false, fmt.Errorf("contains clause on missing list: %s", clause)
			}
			for _, member := range list.Value {
				if attrString(member) == needle {
					return false, nil
				}
			}
		default:
			return false, fmt.Errorf("unsupported condition clause: %s", clause)
		}
	}
	return true, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.table(tableName), f.compositeKey(tableName, key))
	return nil
}

// matchItems evaluates "<attr> = :value" clauses joined with AND.
func matchItems(items map[string]map[string]types.AttributeValue, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string) []map[string]types.AttributeValue {
	var out []map[string]types.AttributeValue

	for _, item := range items {
		matched := true
		for _, clause := range strings.Split(keyConditionExpression, " AND ") {
			parts := strings.SplitN(strings.TrimSpace(clause), " = ", 2)
			if len(parts) != 2 {
				matched = false
				break
			}
			attr := parts[0]
			if resolved, ok := names[attr]; ok {
				attr = resolved
			}
			want, ok := values[parts[1]]
			if !ok || attrString(item[attr]) != attrString(want) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, copyItem(item))
		}
	}
	return out
}

func (f *fakeDynamo) queryFailure(values map[string]types.AttributeValue) error {
	for _, v := range values {
		if err, ok := f.failOnValue[attrString(v)]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeDynamo) QueryItems(ctx context.Context, tableName string, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return f.QueryItemsWithOptions(ctx, tableName, keyConditionExpression, expressionAttributeValues, expressionAttributeNames, limit, false)
}

func (f *fakeDynamo) QueryItemsWithIndex(ctx context.Context, tableName string, indexName string, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.queryFailure(expressionAttributeValues); err != nil {
		return nil, err
	}

	items := matchItems(f.table(tableName), keyConditionExpression, expressionAttributeValues, expressionAttributeNames)
	if limit > 0 && int32(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeDynamo) QueryItemsWithOptions(ctx context.Context, tableName string, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32, latestFirst bool) ([]map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.queryFailure(expressionAttributeValues); err != nil {
		return nil, err
	}

	items := matchItems(f.table(tableName), keyConditionExpression, expressionAttributeValues, expressionAttributeNames)

	keys := fakeTableKeys[tableName]
	if len(keys) == 2 {
		sortAttr := keys[1]
		sort.SliceStable(items, func(i, j int) bool {
			a, b := attrString(items[i][sortAttr]), attrString(items[j][sortAttr])
			if latestFirst {
				return a > b
			}
			return a < b
		})
	}

	if limit > 0 && int32(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failTransact != nil {
		err := f.failTransact
		f.failTransact = nil
		return err
	}

	for _, item := range items {
		switch {
		case item.Put != nil:
			table := *item.Put.TableName
			f.table(table)[f.compositeKey(table, item.Put.Item)] = copyItem(item.Put.Item)
		case item.Delete != nil:
			table := *item.Delete.TableName
			delete(f.table(table), f.compositeKey(table, item.Delete.Key))
		default:
			return fmt.Errorf("unsupported transact item")
		}
	}
	return nil
}

func (f *fakeDynamo) BatchWriteItems(ctx context.Context, tableName string, writeRequests []types.WriteRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, req := range writeRequests {
		switch {
		case req.PutRequest != nil:
			f.table(tableName)[f.compositeKey(tableName, req.PutRequest.Item)] = copyItem(req.PutRequest.Item)
		case req.DeleteRequest != nil:
			delete(f.table(tableName), f.compositeKey(tableName, req.DeleteRequest.Key))
		}
	}
	return nil
}

func (f *fakeDynamo) itemCount(tableName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[tableName])
}

var _ DynamoAPI = (*fakeDynamo)(nil)
