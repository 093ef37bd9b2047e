package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB client. It implements
// the subset of expressions the services actually issue: plain SET update
// expressions and conditions built from attribute_exists, attribute_not_exists
// and attribute = :placeholder equality, with all-or-nothing transaction
// semantics.
type fakeDynamo struct {
	tables map[string]map[string]map[string]types.AttributeValue
	// partition key attribute per table
	keyAttrs map[string]string
	// when set, the next TransactWriteItems call fails with this error
	transactErr error
	// when set, runs once at the start of the next TransactWriteItems call,
	// before conditions are evaluated; lets tests interleave a rival write
	// between a service's reads and its commit
	beforeWrite func()
	// counts mutating calls, letting tests assert "no I/O happened"
	writeCalls int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
		keyAttrs: map[string]string{
			"users":         "uid",
			"matches":       "matchId",
			"majorsCourses": "id",
		},
	}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return f.tables[name]
}

func (f *fakeDynamo) keyFromItem(tableName string, item map[string]types.AttributeValue) (string, error) {
	attr := f.keyAttrs[tableName]
	v, ok := item[attr].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("fake: item in %s missing string key %s", tableName, attr)
	}
	return v.Value, nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	key, err := f.keyFromItem(*params.TableName, params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := f.table(*params.TableName)[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.writeCalls++
	key, err := f.keyFromItem(*params.TableName, params.Item)
	if err != nil {
		return nil, err
	}
	f.table(*params.TableName)[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.writeCalls++
	key, err := f.keyFromItem(*params.TableName, params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := f.table(*params.TableName)[key]
	if cond := aws.ToString(params.ConditionExpression); cond != "" {
		var against map[string]types.AttributeValue
		if exists {
			against = item
		}
		ok, err := evalCondition(cond, against, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	if !exists {
		// DynamoDB upserts on unconditioned updates; start from the key.
		item = copyItem(params.Key)
	} else {
		item = copyItem(item)
	}
	if err := applySetExpression(item, aws.ToString(params.UpdateExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	f.table(*params.TableName)[key] = item
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.writeCalls++
	key, err := f.keyFromItem(*params.TableName, params.Key)
	if err != nil {
		return nil, err
	}
	delete(f.table(*params.TableName), key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.writeCalls++
	if f.beforeWrite != nil {
		hook := f.beforeWrite
		f.beforeWrite = nil
		hook()
	}
	if f.transactErr != nil {
		err := f.transactErr
		f.transactErr = nil
		return nil, err
	}

	// Phase one: every condition is checked against the pre-transaction
	// state. Any failure cancels the whole transaction.
	for _, item := range params.TransactItems {
		tableName, key, condition, names, values, err := f.conditionParts(item)
		if err != nil {
			return nil, err
		}
		if condition == "" {
			continue
		}
		var against map[string]types.AttributeValue
		if stored, exists := f.table(tableName)[key]; exists {
			against = stored
		}
		ok, err := evalCondition(condition, against, names, values)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.TransactionCanceledException{
				Message: aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
				},
			}
		}
	}

	// Phase two: apply every write.
	for _, item := range params.TransactItems {
		switch {
		case item.Put != nil:
			key, err := f.keyFromItem(*item.Put.TableName, item.Put.Item)
			if err != nil {
				return nil, err
			}
			f.table(*item.Put.TableName)[key] = copyItem(item.Put.Item)
		case item.Update != nil:
			key, err := f.keyFromItem(*item.Update.TableName, item.Update.Key)
			if err != nil {
				return nil, err
			}
			stored, ok := f.table(*item.Update.TableName)[key]
			if !ok {
				stored = copyItem(item.Update.Key)
			} else {
				stored = copyItem(stored)
			}
			if err := applySetExpression(stored, aws.ToString(item.Update.UpdateExpression), item.Update.ExpressionAttributeNames, item.Update.ExpressionAttributeValues); err != nil {
				return nil, err
			}
			f.table(*item.Update.TableName)[key] = stored
		case item.Delete != nil:
			key, err := f.keyFromItem(*item.Delete.TableName, item.Delete.Key)
			if err != nil {
				return nil, err
			}
			delete(f.table(*item.Delete.TableName), key)
		case item.ConditionCheck != nil:
			// already evaluated in phase one
		}
	}

	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) conditionParts(item types.TransactWriteItem) (tableName, key, condition string, names map[string]string, values map[string]types.AttributeValue, err error) {
	switch {
	case item.Put != nil:
		key, err = f.keyFromItem(*item.Put.TableName, item.Put.Item)
		return *item.Put.TableName, key, aws.ToString(item.Put.ConditionExpression), item.Put.ExpressionAttributeNames, item.Put.ExpressionAttributeValues, err
	case item.Update != nil:
		key, err = f.keyFromItem(*item.Update.TableName, item.Update.Key)
		return *item.Update.TableName, key, aws.ToString(item.Update.ConditionExpression), item.Update.ExpressionAttributeNames, item.Update.ExpressionAttributeValues, err
	case item.Delete != nil:
		key, err = f.keyFromItem(*item.Delete.TableName, item.Delete.Key)
		return *item.Delete.TableName, key, aws.ToString(item.Delete.ConditionExpression), item.Delete.ExpressionAttributeNames, item.Delete.ExpressionAttributeValues, err
	case item.ConditionCheck != nil:
		key, err = f.keyFromItem(*item.ConditionCheck.TableName, item.ConditionCheck.Key)
		return *item.ConditionCheck.TableName, key, aws.ToString(item.ConditionCheck.ConditionExpression), item.ConditionCheck.ExpressionAttributeNames, item.ConditionCheck.ExpressionAttributeValues, err
	}
	return "", "", "", nil, nil, fmt.Errorf("fake: empty transact item")
}

// applySetExpression supports the "SET a = :a, #b = :b" form the services use.
func applySetExpression(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	if !strings.HasPrefix(expr, "SET ") {
		return fmt.Errorf("fake: unsupported update expression %q", expr)
	}
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("fake: malformed clause in %q", expr)
		}
		attr := resolveName(strings.TrimSpace(parts[0]), names)
		placeholder := strings.TrimSpace(parts[1])
		value, ok := values[placeholder]
		if !ok {
			return fmt.Errorf("fake: missing value for %q", placeholder)
		}
		item[attr] = value
	}
	return nil
}

// evalCondition evaluates the condition grammar the services emit: atoms are
// attribute_exists(a), attribute_not_exists(a) or a = :placeholder, joined by
// AND, with an optional parenthesized OR group per conjunct. item is nil when
// the document does not exist.
func evalCondition(expr string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) (bool, error) {
	for _, conjunct := range strings.Split(expr, " AND ") {
		ok, err := evalOrGroup(conjunct, item, names, values)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalOrGroup(expr string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) (bool, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = expr[1 : len(expr)-1]
	}
	result := false
	for _, term := range strings.Split(expr, " OR ") {
		ok, err := evalConditionAtom(term, item, names, values)
		if err != nil {
			return false, err
		}
		result = result || ok
	}
	return result, nil
}

func evalConditionAtom(expr string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) (bool, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(expr, "attribute_not_exists(") && strings.HasSuffix(expr, ")"):
		attr := resolveName(expr[len("attribute_not_exists("):len(expr)-1], names)
		_, present := item[attr]
		return !present, nil
	case strings.HasPrefix(expr, "attribute_exists(") && strings.HasSuffix(expr, ")"):
		attr := resolveName(expr[len("attribute_exists("):len(expr)-1], names)
		_, present := item[attr]
		return present, nil
	case strings.Contains(expr, " = "):
		parts := strings.SplitN(expr, " = ", 2)
		attr := resolveName(strings.TrimSpace(parts[0]), names)
		placeholder := strings.TrimSpace(parts[1])
		expected, ok := values[placeholder]
		if !ok {
			return false, fmt.Errorf("fake: missing value for %q", placeholder)
		}
		stored, present := item[attr]
		if !present {
			return false, nil
		}
		return attributeValuesEqual(stored, expected), nil
	}
	return false, fmt.Errorf("fake: unsupported condition %q", expr)
}

// attributeValuesEqual compares two attribute values structurally. Empty
// lists and maps compare equal whether their backing storage is nil or not,
// which DeepEqual would distinguish.
func attributeValuesEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		bv, ok := b.(*types.AttributeValueMemberNULL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberL:
		bv, ok := b.(*types.AttributeValueMemberL)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for i := range av.Value {
			if !attributeValuesEqual(av.Value[i], bv.Value[i]) {
				return false
			}
		}
		return true
	case *types.AttributeValueMemberM:
		bv, ok := b.(*types.AttributeValueMemberM)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for k, v := range av.Value {
			other, ok := bv.Value[k]
			if !ok || !attributeValuesEqual(v, other) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func resolveName(attr string, names map[string]string) string {
	if mapped, ok := names[attr]; ok {
		return mapped
	}
	return attr
}
