package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"medtrack-server/internal/models"
)

// DynamoUserStore implements UserStore against a DynamoDB table keyed by
// email.
type DynamoUserStore struct {
	Client DynamoAPI
	Table  string
}

// NewDynamoUserStore creates a new DynamoUserStore.
func NewDynamoUserStore(client DynamoAPI, table string) *DynamoUserStore {
	return &DynamoUserStore{Client: client, Table: table}
}

func (s *DynamoUserStore) Get(ctx context.Context, email string) (*models.User, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", email, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user %q: %w", email, err)
	}
	return &user, nil
}

func (s *DynamoUserStore) Create(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user %q: %w", user.Email, err)
	}

	// Conditional put: the key must not exist yet. This closes the window
	// between the registration pre-check and the write.
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrUserExists
		}
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}
	return nil
}

func (s *DynamoUserStore) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	set := expression.Set(expression.Name("name"), expression.Value(update.Name)).
		Set(expression.Name("age"), expression.Value(update.Age)).
		Set(expression.Name("gender"), expression.Value(update.Gender))
	if update.Specialization != nil {
		set = set.Set(expression.Name("specialization"), expression.Value(*update.Specialization))
	}

	expr, err := expression.NewBuilder().WithUpdate(set).Build()
	if err != nil {
		return fmt.Errorf("build profile update for %q: %w", email, err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("update profile for %q: %w", email, err)
	}
	return nil
}

func (s *DynamoUserStore) ListDoctors(ctx context.Context) ([]models.User, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("role").Equal(expression.Value(models.RoleDoctor))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build doctor filter: %w", err)
	}

	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.Table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scan doctors: %w", err)
	}

	var doctors []models.User
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &doctors); err != nil {
		return nil, fmt.Errorf("unmarshal doctors: %w", err)
	}
	return doctors, nil
}
