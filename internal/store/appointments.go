package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"medtrack-server/internal/models"
)

// Secondary indexes on the appointments table.
const (
	doctorEmailIndex  = "DoctorEmailIndex"
	patientEmailIndex = "PatientEmailIndex"
)

// DynamoAppointmentStore implements AppointmentStore against a DynamoDB
// table keyed by appointment_id, with per-role secondary indexes.
type DynamoAppointmentStore struct {
	Client DynamoAPI
	Table  string
}

// NewDynamoAppointmentStore creates a new DynamoAppointmentStore.
func NewDynamoAppointmentStore(client DynamoAPI, table string) *DynamoAppointmentStore {
	return &DynamoAppointmentStore{Client: client, Table: table}
}

func (s *DynamoAppointmentStore) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]types.AttributeValue{
			"appointment_id": &types.AttributeValueMemberS{Value: appointmentID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get appointment %q: %w", appointmentID, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var appointment models.Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &appointment); err != nil {
		return nil, fmt.Errorf("unmarshal appointment %q: %w", appointmentID, err)
	}
	return &appointment, nil
}

func (s *DynamoAppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	item, err := attributevalue.MarshalMap(appointment)
	if err != nil {
		return fmt.Errorf("marshal appointment %q: %w", appointment.AppointmentID, err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("create appointment %q: %w", appointment.AppointmentID, err)
	}
	return nil
}

func (s *DynamoAppointmentStore) Complete(ctx context.Context, appointmentID string, diagnosis Diagnosis) error {
	set := expression.Set(expression.Name("diagnosis"), expression.Value(diagnosis.Diagnosis)).
		Set(expression.Name("treatment_plan"), expression.Value(diagnosis.TreatmentPlan)).
		Set(expression.Name("prescription"), expression.Value(diagnosis.Prescription)).
		Set(expression.Name("status"), expression.Value(models.StatusCompleted)).
		Set(expression.Name("updated_at"), expression.Value(now()))

	// The pending -> completed transition is one-way even under concurrent
	// submissions.
	cond := expression.Name("status").Equal(expression.Value(models.StatusPending))

	expr, err := expression.NewBuilder().WithUpdate(set).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build completion update for %q: %w", appointmentID, err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Table),
		Key: map[string]types.AttributeValue{
			"appointment_id": &types.AttributeValueMemberS{Value: appointmentID},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrAlreadyCompleted
		}
		return fmt.Errorf("complete appointment %q: %w", appointmentID, err)
	}
	return nil
}

func (s *DynamoAppointmentStore) ListByDoctor(ctx context.Context, doctorEmail string) ([]models.Appointment, error) {
	return s.listByEmail(ctx, doctorEmailIndex, "doctor_email", doctorEmail)
}

func (s *DynamoAppointmentStore) ListByPatient(ctx context.Context, patientEmail string) ([]models.Appointment, error) {
	return s.listByEmail(ctx, patientEmailIndex, "patient_email", patientEmail)
}

// listByEmail queries the secondary index and, if the query fails for any
// reason, falls back to a full scan with the equivalent equality filter.
// Both paths return the same logical result set.
func (s *DynamoAppointmentStore) listByEmail(ctx context.Context, index, attribute, email string) ([]models.Appointment, error) {
	queryExpr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(attribute).Equal(expression.Value(email))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", index, err)
	}

	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Table),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    queryExpr.KeyCondition(),
		ExpressionAttributeNames:  queryExpr.Names(),
		ExpressionAttributeValues: queryExpr.Values(),
	})
	if err == nil {
		return unmarshalAppointments(out.Items)
	}
	slog.Warn("index query failed, falling back to scan",
		"index", index, "attribute", attribute, "error", err)

	scanExpr, err := expression.NewBuilder().
		WithFilter(expression.Name(attribute).Equal(expression.Value(email))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build %s fallback filter: %w", attribute, err)
	}

	scanOut, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.Table),
		FilterExpression:          scanExpr.Filter(),
		ExpressionAttributeNames:  scanExpr.Names(),
		ExpressionAttributeValues: scanExpr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scan appointments by %s: %w", attribute, err)
	}
	return unmarshalAppointments(scanOut.Items)
}

func (s *DynamoAppointmentStore) SearchByPatientName(ctx context.Context, doctorEmail, term string) ([]models.Appointment, error) {
	filter := expression.Name("doctor_email").Equal(expression.Value(doctorEmail)).
		And(expression.Name("patient_name").Contains(term))
	return s.scanWithFilter(ctx, filter)
}

func (s *DynamoAppointmentStore) SearchByDoctorNameOrStatus(ctx context.Context, patientEmail, term string) ([]models.Appointment, error) {
	filter := expression.Name("patient_email").Equal(expression.Value(patientEmail)).
		And(expression.Name("doctor_name").Contains(term).
			Or(expression.Name("status").Contains(term)))
	return s.scanWithFilter(ctx, filter)
}

func (s *DynamoAppointmentStore) scanWithFilter(ctx context.Context, filter expression.ConditionBuilder) ([]models.Appointment, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build search filter: %w", err)
	}

	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.Table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scan appointments: %w", err)
	}
	return unmarshalAppointments(out.Items)
}

func unmarshalAppointments(items []map[string]types.AttributeValue) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := attributevalue.UnmarshalListOfMaps(items, &appointments); err != nil {
		return nil, fmt.Errorf("unmarshal appointments: %w", err)
	}
	return appointments, nil
}
