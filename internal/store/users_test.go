package store

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtrack-server/internal/models"
)

// fakeDynamo is a scriptable DynamoAPI that records the inputs it receives.
type fakeDynamo struct {
	getIn  *dynamodb.GetItemInput
	getOut *dynamodb.GetItemOutput
	getErr error

	putIn  *dynamodb.PutItemInput
	putErr error

	updateIn  *dynamodb.UpdateItemInput
	updateErr error

	queryIn  *dynamodb.QueryInput
	queryOut *dynamodb.QueryOutput
	queryErr error

	scanIn  *dynamodb.ScanInput
	scanOut *dynamodb.ScanOutput
	scanErr error
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getIn = in
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getOut, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putIn = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateIn = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryIn = in
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanIn = in
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if f.scanOut == nil {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.scanOut, nil
}

// hasStringValue reports whether any expression attribute value is the
// string want. Generated placeholder names are an implementation detail of
// the expression builder, so tests match on values instead.
func hasStringValue(values map[string]types.AttributeValue, want string) bool {
	for _, v := range values {
		if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == want {
			return true
		}
	}
	return false
}

func mustMarshalUser(t *testing.T, user models.User) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(user)
	require.NoError(t, err)
	return item
}

func TestUserGet(t *testing.T) {
	fake := &fakeDynamo{
		getOut: &dynamodb.GetItemOutput{
			Item: mustMarshalUser(t, models.User{
				Email: "a@x.com",
				Name:  "Alice",
				Role:  models.RolePatient,
			}),
		},
	}
	s := NewDynamoUserStore(fake, "UsersTable")

	user, err := s.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, models.RolePatient, user.Role)

	assert.Equal(t, "UsersTable", aws.ToString(fake.getIn.TableName))
	key := fake.getIn.Key["email"].(*types.AttributeValueMemberS)
	assert.Equal(t, "a@x.com", key.Value)
}

func TestUserGetNotFound(t *testing.T) {
	s := NewDynamoUserStore(&fakeDynamo{}, "UsersTable")

	_, err := s.Get(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreateIsConditional(t *testing.T) {
	fake := &fakeDynamo{}
	s := NewDynamoUserStore(fake, "UsersTable")

	err := s.Create(context.Background(), &models.User{Email: "a@x.com", Role: models.RolePatient})
	require.NoError(t, err)

	require.NotNil(t, fake.putIn)
	assert.Equal(t, "attribute_not_exists(email)", aws.ToString(fake.putIn.ConditionExpression))
}

func TestUserCreateRace(t *testing.T) {
	fake := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	s := NewDynamoUserStore(fake, "UsersTable")

	err := s.Create(context.Background(), &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("without specialization", func(t *testing.T) {
		fake := &fakeDynamo{}
		s := NewDynamoUserStore(fake, "UsersTable")

		err := s.UpdateProfile(context.Background(), "a@x.com", ProfileUpdate{
			Name: "Alice B", Age: "31", Gender: "female",
		})
		require.NoError(t, err)

		require.NotNil(t, fake.updateIn)
		assert.True(t, hasStringValue(fake.updateIn.ExpressionAttributeValues, "Alice B"))
		assert.True(t, hasStringValue(fake.updateIn.ExpressionAttributeValues, "31"))
		assert.False(t, hasStringValue(fake.updateIn.ExpressionAttributeValues, "cardiology"))
	})

	t.Run("with specialization", func(t *testing.T) {
		fake := &fakeDynamo{}
		s := NewDynamoUserStore(fake, "UsersTable")

		specialization := "cardiology"
		err := s.UpdateProfile(context.Background(), "d@x.com", ProfileUpdate{
			Name: "Dan", Age: "45", Gender: "male", Specialization: &specialization,
		})
		require.NoError(t, err)
		assert.True(t, hasStringValue(fake.updateIn.ExpressionAttributeValues, "cardiology"))
	})
}

func TestListDoctors(t *testing.T) {
	fake := &fakeDynamo{
		scanOut: &dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{
				mustMarshalUser(t, models.User{Email: "d@x.com", Name: "Dan", Role: models.RoleDoctor}),
			},
		},
	}
	s := NewDynamoUserStore(fake, "UsersTable")

	doctors, err := s.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "d@x.com", doctors[0].Email)

	// Scan must filter on role = doctor.
	assert.True(t, hasStringValue(fake.scanIn.ExpressionAttributeValues, "doctor"))
}
