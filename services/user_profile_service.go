package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/WeiViv/StudyBuddy/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProviderIdentity is the display metadata the identity provider hands us on
// sign-in. The uid is the stable identity key; everything else is best-effort.
type ProviderIdentity struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	ProfilePic  string `json:"profilePic"`
}

// Owner-mutable profile attributes; everything else is managed by the match
// lifecycle or the identity provider.
var mutableProfileFields = map[string]bool{
	"name":          true,
	"email":         true,
	"phoneNumber":   true,
	"profilePic":    true,
	"major":         true,
	"year":          true,
	"description":   true,
	"open":          true,
	"listOfCourses": true,
}

// UserProfileService is the CRUD accessor for student profile documents.
type UserProfileService struct {
	Dynamo *DynamoService
}

// EnsureUserProfile provisions the profile document on first sign-in and
// reconciles it afterwards: missing attributes are backfilled with their
// defaults and the profile picture follows the provider's photo. Returns the
// profile and whether a new document was created.
func (ups *UserProfileService) EnsureUserProfile(ctx context.Context, identity ProviderIdentity) (*models.UserProfile, bool, error) {
	if identity.UID == "" {
		return nil, false, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}

	defaults := models.DefaultUserProfile(identity.UID, identity.Name, identity.Email, identity.PhoneNumber, identity.ProfilePic)

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"uid": &types.AttributeValueMemberS{Value: identity.UID},
	})
	if errors.Is(err, ErrNotFound) {
		if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, defaults); err != nil {
			return nil, false, err
		}
		log.Printf("New user profile created for %s", identity.UID)
		return &defaults, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	defaultItem, err := attributevalue.MarshalMap(defaults)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal default profile: %w", err)
	}

	updates := map[string]interface{}{}
	for attr := range defaultItem {
		if _, present := item[attr]; !present {
			var value interface{}
			if err := attributevalue.Unmarshal(defaultItem[attr], &value); err != nil {
				return nil, false, fmt.Errorf("failed to unmarshal default %s: %w", attr, err)
			}
			updates[attr] = value
		}
	}
	if identity.ProfilePic != "" && identity.ProfilePic != profile.ProfilePic {
		updates["profilePic"] = identity.ProfilePic
	}

	if len(updates) > 0 {
		updated, err := ups.applyUpdates(ctx, identity.UID, updates)
		if err != nil {
			return nil, false, err
		}
		log.Printf("User profile for %s backfilled with %d attribute(s)", identity.UID, len(updates))
		return updated, false, nil
	}

	return &profile, false, nil
}

// GetUserProfile retrieves a student profile by uid
func (ups *UserProfileService) GetUserProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := ups.Dynamo.GetDocument(ctx, models.UserProfilesTable, "uid", uid, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateUserProfile applies owner edits to a profile. Only the mutable
// attribute set is accepted; the year value must be one of the known enums.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, uid string, updates map[string]interface{}) (*models.UserProfile, error) {
	if uid == "" || len(updates) == 0 {
		return nil, fmt.Errorf("%w: uid and at least one update are required", ErrInvalidArgument)
	}
	for field := range updates {
		if !mutableProfileFields[field] {
			return nil, fmt.Errorf("%w: field %q is not editable", ErrInvalidArgument, field)
		}
	}
	if year, ok := updates["year"].(string); ok && year != "" && !models.IsValidYear(year) {
		return nil, fmt.Errorf("%w: unknown year %q", ErrInvalidArgument, year)
	}

	return ups.applyUpdates(ctx, uid, updates)
}

// DeleteUserProfile removes a student profile
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, uid string) error {
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"uid": &types.AttributeValueMemberS{Value: uid},
	})
}

// GetAllProfiles scans the full users table; discovery filters it client-side.
func (ups *UserProfileService) GetAllProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := ups.Dynamo.ScanAll(ctx, models.UserProfilesTable, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (ups *UserProfileService) applyUpdates(ctx context.Context, uid string, updates map[string]interface{}) (*models.UserProfile, error) {
	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range updates {
		marshaled, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update for %s: %w", field, err)
		}
		placeholder := ":" + field
		attributeName := "#" + field
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionAttributeValues[placeholder] = marshaled
		expressionAttributeNames[attributeName] = field
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	key := map[string]types.AttributeValue{
		"uid": &types.AttributeValueMemberS{Value: uid},
	}
	// Guarded so an edit to a nonexistent uid fails instead of upserting a
	// partial document.
	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, "attribute_exists(uid)", key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}
