package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/WeiViv/StudyBuddy/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchService owns the match lifecycle: creating requests, resolving them,
// and answering who a student is currently matched with. Every multi-document
// write goes through a single store transaction so the request lists on both
// user documents and the match document stay consistent.
type MatchService struct {
	Dynamo *DynamoService
}

// CreateMatch proposes a match between the first two participant uids.
// participants[0] is the requested user and participants[1] the requester;
// the requested user's entry starts confirmed, the rest pending. The match
// document and both users' request-list entries commit in one transaction.
// Returns the new matchId.
func (ms *MatchService) CreateMatch(ctx context.Context, participants []string, location, description string) (string, error) {
	if len(participants) < 2 {
		return "", fmt.Errorf("%w: at least two participants required", ErrInvalidArgument)
	}
	if location == "" {
		return "", fmt.Errorf("%w: location is required", ErrInvalidArgument)
	}

	requestedUID := participants[0]
	requestingUID := participants[1]

	requested, err := ms.getProfileForUpdate(ctx, requestedUID)
	if err != nil {
		return "", err
	}
	requesting, err := ms.getProfileForUpdate(ctx, requestingUID)
	if err != nil {
		return "", err
	}

	matchID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	users := make([]models.MatchParticipant, 0, len(participants))
	for i, uid := range participants {
		status := models.StatusPending
		if i == 0 {
			status = models.StatusConfirmed
		}
		users = append(users, models.MatchParticipant{UID: uid, Status: status, JoinedAt: now})
	}

	match := models.Match{
		MatchID:              matchID,
		Users:                users,
		Location:             location,
		Description:          description,
		CreatedAt:            now,
		AwaitingConfirmation: true,
	}
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return "", fmt.Errorf("failed to marshal match: %w", err)
	}

	newIncoming := models.WithIncomingAdded(requested.IncomingMatches, models.IncomingRequest{
		RequestingUser: requestingUID,
		MatchID:        matchID,
	})
	newOutgoing := models.WithOutgoingAdded(requesting.OutgoingMatches, models.OutgoingRequest{
		RequestedUser: requestedUID,
		MatchID:       matchID,
	})

	incomingGuard, err := newGuardedList("incomingMatches", len(requested.IncomingMatches), requested.IncomingMatches, newIncoming)
	if err != nil {
		return "", err
	}
	outgoingGuard, err := newGuardedList("outgoingMatches", len(requesting.OutgoingMatches), requesting.OutgoingMatches, newOutgoing)
	if err != nil {
		return "", err
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.MatchesTable),
				Item:                matchItem,
				ConditionExpression: aws.String("attribute_not_exists(matchId)"),
			},
		},
		profileListUpdate(requestedUID, incomingGuard),
		profileListUpdate(requestingUID, outgoingGuard),
	}

	if err := ms.Dynamo.TransactWrite(ctx, items); err != nil {
		return "", fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("Match %s created: %s requested by %s", matchID, requestedUID, requestingUID)
	return matchID, nil
}

// ResolveMatchRequest accepts or declines the pending request identified by
// (requestingUID, matchID) on requestedUID's incoming list. One transaction
// removes the exact entry from both users' request lists and, on accept,
// unions matchID into both currentMatches; on decline the match document is
// deleted. Removal and union are structural set operations, so replaying a
// resolved accept neither drops other pending requests nor duplicates
// currentMatches entries.
func (ms *MatchService) ResolveMatchRequest(ctx context.Context, requestedUID, requestingUID, matchID string, accept bool) error {
	if requestedUID == "" || requestingUID == "" || matchID == "" {
		return fmt.Errorf("%w: requestedUid, requestingUid and matchId are required", ErrInvalidArgument)
	}

	requested, err := ms.getProfileForUpdate(ctx, requestedUID)
	if err != nil {
		return err
	}
	requesting, err := ms.getProfileForUpdate(ctx, requestingUID)
	if err != nil {
		return err
	}

	// The original client mutated request lists without checking the match
	// document; verifying it here keeps accepts from resurrecting deleted
	// matches.
	var match models.Match
	if err := ms.Dynamo.GetDocument(ctx, models.MatchesTable, "matchId", matchID, &match); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: match %s does not exist", ErrPreconditionFailed, matchID)
		}
		return err
	}

	newIncoming := models.WithIncomingRemoved(requested.IncomingMatches, models.IncomingRequest{
		RequestingUser: requestingUID,
		MatchID:        matchID,
	})
	newOutgoing := models.WithOutgoingRemoved(requesting.OutgoingMatches, models.OutgoingRequest{
		RequestedUser: requestedUID,
		MatchID:       matchID,
	})

	incomingGuard, err := newGuardedList("incomingMatches", len(requested.IncomingMatches), requested.IncomingMatches, newIncoming)
	if err != nil {
		return err
	}
	outgoingGuard, err := newGuardedList("outgoingMatches", len(requesting.OutgoingMatches), requesting.OutgoingMatches, newOutgoing)
	if err != nil {
		return err
	}

	var items []types.TransactWriteItem

	if accept {
		requestedMatches, err := newGuardedList("currentMatches", len(requested.CurrentMatches), requested.CurrentMatches,
			models.WithMatchIDAdded(requested.CurrentMatches, matchID))
		if err != nil {
			return err
		}
		requestingMatches, err := newGuardedList("currentMatches", len(requesting.CurrentMatches), requesting.CurrentMatches,
			models.WithMatchIDAdded(requesting.CurrentMatches, matchID))
		if err != nil {
			return err
		}
		items = []types.TransactWriteItem{
			profileListUpdate(requestedUID, incomingGuard, requestedMatches),
			profileListUpdate(requestingUID, outgoingGuard, requestingMatches),
			{
				// The match document is intentionally left unmodified on
				// accept; only its continued existence is asserted.
				ConditionCheck: &types.ConditionCheck{
					TableName:           aws.String(models.MatchesTable),
					Key:                 stringKey("matchId", matchID),
					ConditionExpression: aws.String("attribute_exists(matchId)"),
				},
			},
		}
	} else {
		items = []types.TransactWriteItem{
			profileListUpdate(requestedUID, incomingGuard),
			profileListUpdate(requestingUID, outgoingGuard),
			{
				Delete: &types.Delete{
					TableName:           aws.String(models.MatchesTable),
					Key:                 stringKey("matchId", matchID),
					ConditionExpression: aws.String("attribute_exists(matchId)"),
				},
			},
		}
	}

	if err := ms.Dynamo.TransactWrite(ctx, items); err != nil {
		return fmt.Errorf("failed to resolve match request %s: %w", matchID, err)
	}

	if accept {
		log.Printf("Match request %s accepted by %s", matchID, requestedUID)
	} else {
		log.Printf("Match request %s declined by %s", matchID, requestedUID)
	}
	return nil
}

// GetUserMatches returns the profiles of everyone uid is currently matched
// with, following currentMatches order and then users-array order within
// each match. Matches whose document has since vanished are skipped; so are
// peers whose profile is gone. Peers appearing in several matches appear
// once per match.
func (ms *MatchService) GetUserMatches(ctx context.Context, uid string) ([]models.UserProfile, error) {
	var profile models.UserProfile
	if err := ms.Dynamo.GetDocument(ctx, models.UserProfilesTable, "uid", uid, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", uid, err)
	}

	peers := []models.UserProfile{}
	for _, matchID := range profile.CurrentMatches {
		var match models.Match
		if err := ms.Dynamo.GetDocument(ctx, models.MatchesTable, "matchId", matchID, &match); err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Printf("Match %s referenced by %s no longer exists, skipping", matchID, uid)
				continue
			}
			return nil, err
		}

		for _, participant := range match.Peers(uid) {
			var peer models.UserProfile
			if err := ms.Dynamo.GetDocument(ctx, models.UserProfilesTable, "uid", participant.UID, &peer); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			peers = append(peers, peer)
		}
	}

	return peers, nil
}

// GetMatchedUserUIDs returns the de-duplicated uids of everyone uid is
// currently matched with, in first-seen traversal order. Discovery uses this
// to exclude already-matched students.
func (ms *MatchService) GetMatchedUserUIDs(ctx context.Context, uid string) ([]string, error) {
	var profile models.UserProfile
	if err := ms.Dynamo.GetDocument(ctx, models.UserProfilesTable, "uid", uid, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", uid, err)
	}

	seen := map[string]struct{}{}
	uids := []string{}
	for _, matchID := range profile.CurrentMatches {
		var match models.Match
		if err := ms.Dynamo.GetDocument(ctx, models.MatchesTable, "matchId", matchID, &match); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, participant := range match.Peers(uid) {
			if _, ok := seen[participant.UID]; ok {
				continue
			}
			seen[participant.UID] = struct{}{}
			uids = append(uids, participant.UID)
		}
	}

	return uids, nil
}

// getProfileForUpdate reads a profile that a transaction is about to touch;
// a missing document is a precondition failure, not a not-found.
func (ms *MatchService) getProfileForUpdate(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := ms.Dynamo.GetDocument(ctx, models.UserProfilesTable, "uid", uid, &profile); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user profile %s does not exist", ErrPreconditionFailed, uid)
		}
		return nil, err
	}
	return &profile, nil
}

// guardedList pairs a list attribute's replacement value with the value read
// before the transaction, so the write can assert the list is still unchanged
// at commit time.
type guardedList struct {
	attr     string
	oldValue types.AttributeValue
	newValue types.AttributeValue
	oldEmpty bool
}

func newGuardedList(attr string, oldLen int, old, updated interface{}) (guardedList, error) {
	g := guardedList{attr: attr, oldEmpty: oldLen == 0}
	if g.oldEmpty {
		// A never-written list may be stored empty or absent entirely;
		// normalize the comparison value to an empty list and let the guard
		// accept either form.
		g.oldValue = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
	} else {
		value, err := attributevalue.Marshal(old)
		if err != nil {
			return guardedList{}, fmt.Errorf("failed to marshal %s: %w", attr, err)
		}
		g.oldValue = value
	}
	value, err := attributevalue.Marshal(updated)
	if err != nil {
		return guardedList{}, fmt.Errorf("failed to marshal %s: %w", attr, err)
	}
	g.newValue = value
	return g, nil
}

// profileListUpdate builds a transaction item replacing list attributes on a
// user document. Each replacement is conditioned on the list still holding the
// value read before the transaction: a write landing in between cancels the
// whole transaction instead of being silently overwritten, and the caller's
// whole-call retry re-reads.
func profileListUpdate(uid string, lists ...guardedList) types.TransactWriteItem {
	setParts := make([]string, 0, len(lists))
	condition := "attribute_exists(uid)"
	values := map[string]types.AttributeValue{}
	for _, l := range lists {
		newPlaceholder := ":new" + l.attr
		oldPlaceholder := ":old" + l.attr
		setParts = append(setParts, l.attr+" = "+newPlaceholder)
		values[newPlaceholder] = l.newValue
		values[oldPlaceholder] = l.oldValue
		if l.oldEmpty {
			condition += fmt.Sprintf(" AND (attribute_not_exists(%s) OR %s = %s)", l.attr, l.attr, oldPlaceholder)
		} else {
			condition += fmt.Sprintf(" AND %s = %s", l.attr, oldPlaceholder)
		}
	}
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(models.UserProfilesTable),
			Key:                       stringKey("uid", uid),
			UpdateExpression:          aws.String("SET " + strings.Join(setParts, ", ")),
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeValues: values,
		},
	}
}

func stringKey(attr, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attr: &types.AttributeValueMemberS{Value: value},
	}
}
