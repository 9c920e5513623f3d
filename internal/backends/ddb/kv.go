package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"cotiza/internal/types"
)

// KV implements ports.KVStore on a single DynamoDB table with the usual
// PK/SK layout; each key occupies one item holding the raw payload.
type KV struct {
	table string
	cli   *dynamodb.Client
}

func NewKV(table string, cli *dynamodb.Client) *KV {
	// Creates the table only if it doesn't exist.
	// We ignore the error if the table already exists.
	createTableIfNotExists(cli, table)
	return &KV{table: table, cli: cli}
}

type kvItem struct {
	PK      string `dynamodbav:"PK"`
	SK      string `dynamodbav:"SK"`
	Payload []byte `dynamodbav:"payload"`
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.cli.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]ddbTypes.AttributeValue{
			"PK": &ddbTypes.AttributeValueMemberS{Value: pkKV(key)},
			"SK": &ddbTypes.AttributeValueMemberS{Value: skValue()},
		},
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, types.ErrNotFound
	}
	var item kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return item.Payload, nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(kvItem{
		PK:      pkKV(key),
		SK:      skValue(),
		Payload: value,
	})
	if err != nil {
		return err
	}
	_, err = s.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	return err
}

func (s *KV) Delete(ctx context.Context, key string) error {
	_, err := s.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key: map[string]ddbTypes.AttributeValue{
			"PK": &ddbTypes.AttributeValueMemberS{Value: pkKV(key)},
			"SK": &ddbTypes.AttributeValueMemberS{Value: skValue()},
		},
	})
	return err
}
