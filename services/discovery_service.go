package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/WeiViv/StudyBuddy/models"
)

// DiscoveryService backs the browse page: the full student list filtered by
// major/year with the caller and their existing matches excluded.
type DiscoveryService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Matches  *MatchService
}

// FilterCandidates applies the browse filters over a profile list. The
// caller's own profile and every uid in excludedUIDs are dropped; an empty
// major or year filter passes everything, otherwise membership is an exact
// string match against the profile's joined major string or year value.
// Input ordering is preserved and no sort is applied.
func FilterCandidates(profiles []models.UserProfile, excludeUID string, excludedUIDs map[string]struct{}, majorFilter, yearFilter []string) []models.UserProfile {
	majors := toSet(majorFilter)
	years := toSet(yearFilter)

	result := []models.UserProfile{}
	for _, profile := range profiles {
		if profile.UID == excludeUID {
			continue
		}
		if _, excluded := excludedUIDs[profile.UID]; excluded {
			continue
		}
		if len(majors) > 0 {
			if _, ok := majors[profile.Major]; !ok {
				continue
			}
		}
		if len(years) > 0 {
			if _, ok := years[profile.Year]; !ok {
				continue
			}
		}
		result = append(result, profile)
	}
	return result
}

// BrowseStudents returns the filtered candidate list for uid: all profiles
// minus the caller, minus anyone they are already matched with, narrowed by
// the selected majors and years.
func (ds *DiscoveryService) BrowseStudents(ctx context.Context, uid string, majors, years []string) ([]models.UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}

	profiles, err := ds.Profiles.GetAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student profiles: %w", err)
	}

	matchedUIDs, err := ds.Matches.GetMatchedUserUIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	excluded := toSet(matchedUIDs)

	return FilterCandidates(profiles, uid, excluded, majors, years), nil
}

// GetMajors reads the shared majors reference document. The list is
// maintained out of band; an absent document yields an empty list.
func (ds *DiscoveryService) GetMajors(ctx context.Context) ([]string, error) {
	var doc models.MajorsDocument
	err := ds.Dynamo.GetDocument(ctx, models.MajorsCoursesTable, "id", models.MajorsDocumentID, &doc)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Majors == nil {
		return []string{}, nil
	}
	return doc.Majors, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
