// Package store adapts user records to and from their DynamoDB item format.
// It is the only code that talks to the table; callers get three distinct
// outcomes from every read: a record, ErrRecordNotFound, or a transport
// failure.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrRecordNotFound signals a read that matched nothing. It is never used
// for transport or credential failures.
var ErrRecordNotFound = errors.New("record not found")

// IsRecordNotFound reports whether err means the record does not exist, as
// opposed to the store being unreachable.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// EmailIndex is the global secondary index keyed on the email attribute.
const EmailIndex = "EmailIndex"

// publicProjection lists the attributes ScanAll returns. Credential fields
// never leave the table through a scan.
var publicProjection = []string{"id", "email", "#nm", "age", "createdAt", "updatedAt"}

// API is the subset of the DynamoDB client the adapter uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Users is the credential store adapter for the users table.
type Users struct {
	client API
	table  string
	now    func() time.Time
}

// NewUsers returns an adapter bound to the given table.
func NewUsers(client API, table string) *Users {
	return &Users{client: client, table: table, now: time.Now}
}

// WithClock swaps the time source used to stamp updatedAt. Sharing one
// clock with the caller keeps reported and stored timestamps identical.
func (s *Users) WithClock(now func() time.Time) *Users {
	s.now = now
	return s
}

// GetByID fetches a record by primary key.
func (s *Users) GetByID(ctx context.Context, id string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("store: get user %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrRecordNotFound
	}

	return unmarshalUser(out.Item)
}

// GetByEmail looks a record up through the email index. When the index holds
// more than one match the first one wins; duplicate emails can exist because
// registration's uniqueness check is not transactional.
func (s *Users) GetByEmail(ctx context.Context, email string) (*User, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(EmailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("store: query email index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrRecordNotFound
	}

	return unmarshalUser(out.Items[0])
}

// Put writes the full record, creating or replacing it.
func (s *Users) Put(ctx context.Context, user *User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("store: marshal user: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("store: put user %s: %w", user.ID, err)
	}
	return nil
}

// Update merges the given attributes into an existing record. updatedAt is
// stamped from the adapter clock unless the caller already set it. The
// caller's map is left alone. A nil value removes the attribute. Fails with
// ErrRecordNotFound when the record does not exist.
func (s *Users) Update(ctx context.Context, id string, fields map[string]any) error {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	if _, ok := merged["updatedAt"]; !ok {
		merged["updatedAt"] = s.now().Unix()
	}

	expr, names, values, err := buildUpdateExpression(merged)
	if err != nil {
		return err
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       idKey(id),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("store: update user %s: %w", id, err)
	}
	return nil
}

// Delete removes a record by primary key. Deleting a missing record is not
// an error here; existence checks are the caller's concern.
func (s *Users) Delete(ctx context.Context, id string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	}); err != nil {
		return fmt.Errorf("store: delete user %s: %w", id, err)
	}
	return nil
}

// ScanAll reads the whole table, following pagination, projected down to the
// public attributes.
func (s *Users) ScanAll(ctx context.Context) ([]*User, error) {
	var users []*User
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(s.table),
			ProjectionExpression:     aws.String(strings.Join(publicProjection, ", ")),
			ExpressionAttributeNames: map[string]string{"#nm": "name"},
			ExclusiveStartKey:        startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("store: scan users: %w", err)
		}

		for _, item := range out.Items {
			user, err := unmarshalUser(item)
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return users, nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshalUser(item map[string]types.AttributeValue) (*User, error) {
	user := &User{}
	if err := attributevalue.UnmarshalMap(item, user); err != nil {
		return nil, fmt.Errorf("store: unmarshal user item: %w", err)
	}
	return user, nil
}

// buildUpdateExpression turns a field map into SET and REMOVE clauses with
// placeholder names, so reserved attribute names like "name" stay safe.
func buildUpdateExpression(fields map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var sets, removes []string

	for i, k := range keys {
		placeholder := fmt.Sprintf("#f%d", i)
		names[placeholder] = k

		if fields[k] == nil {
			removes = append(removes, placeholder)
			continue
		}

		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("store: marshal field %s: %w", k, err)
		}
		values[fmt.Sprintf(":v%d", i)] = av
		sets = append(sets, fmt.Sprintf("%s = :v%d", placeholder, i))
	}

	var parts []string
	if len(sets) > 0 {
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(removes, ", "))
	}

	return strings.Join(parts, " "), names, values, nil
}
