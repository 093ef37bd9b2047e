package models

// UserProfile defines the structure for student profiles
type UserProfile struct {
	UID             string            `dynamodbav:"uid" json:"uid"`
	Name            string            `dynamodbav:"name" json:"name"`
	Email           string            `dynamodbav:"email" json:"email"`
	PhoneNumber     string            `dynamodbav:"phoneNumber" json:"phoneNumber"`
	ProfilePic      string            `dynamodbav:"profilePic" json:"profilePic"`
	Major           string            `dynamodbav:"major" json:"major"` // comma-joined, up to 3 values
	Year            string            `dynamodbav:"year" json:"year"`
	Description     string            `dynamodbav:"description" json:"description"`
	Open            bool              `dynamodbav:"open" json:"open"`
	ListOfCourses   []string          `dynamodbav:"listOfCourses" json:"listOfCourses"`
	IncomingMatches []IncomingRequest `dynamodbav:"incomingMatches" json:"incomingMatches"`
	OutgoingMatches []OutgoingRequest `dynamodbav:"outgoingMatches" json:"outgoingMatches"`
	CurrentMatches  []string          `dynamodbav:"currentMatches" json:"currentMatches"`
	PastMatches     []string          `dynamodbav:"pastMatches" json:"pastMatches"`
}

// IncomingRequest is a pending match request directed at the owning user.
type IncomingRequest struct {
	RequestingUser string `dynamodbav:"requestingUser" json:"requestingUser"`
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
}

// OutgoingRequest is a pending match request the owning user has sent.
type OutgoingRequest struct {
	RequestedUser string `dynamodbav:"requestedUser" json:"requestedUser"`
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
}

// UserProfilesTable is the DynamoDB table name for student profiles
const UserProfilesTable = "users"

// DefaultUserProfile builds the document written on a student's first sign-in.
// Field values mirror what the identity provider hands us; everything else
// starts empty with the profile open for discovery.
func DefaultUserProfile(uid, name, email, phoneNumber, profilePic string) UserProfile {
	return UserProfile{
		UID:             uid,
		Name:            name,
		Email:           email,
		PhoneNumber:     phoneNumber,
		ProfilePic:      profilePic,
		Open:            true,
		ListOfCourses:   []string{},
		IncomingMatches: []IncomingRequest{},
		OutgoingMatches: []OutgoingRequest{},
		CurrentMatches:  []string{},
		PastMatches:     []string{},
	}
}

// WithIncomingAdded returns the incoming list with the entry added, keyed by
// (requestingUser, matchId). Re-adding an existing entry is a no-op.
func WithIncomingAdded(list []IncomingRequest, entry IncomingRequest) []IncomingRequest {
	for _, r := range list {
		if r.RequestingUser == entry.RequestingUser && r.MatchID == entry.MatchID {
			return list
		}
	}
	return append(append([]IncomingRequest{}, list...), entry)
}

// WithIncomingRemoved removes only the entry matching both the peer uid and
// matchId; other pending requests are untouched. Absent entries are a no-op.
func WithIncomingRemoved(list []IncomingRequest, entry IncomingRequest) []IncomingRequest {
	out := make([]IncomingRequest, 0, len(list))
	for _, r := range list {
		if r.RequestingUser == entry.RequestingUser && r.MatchID == entry.MatchID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// WithOutgoingAdded mirrors WithIncomingAdded for the sender's side.
func WithOutgoingAdded(list []OutgoingRequest, entry OutgoingRequest) []OutgoingRequest {
	for _, r := range list {
		if r.RequestedUser == entry.RequestedUser && r.MatchID == entry.MatchID {
			return list
		}
	}
	return append(append([]OutgoingRequest{}, list...), entry)
}

// WithOutgoingRemoved mirrors WithIncomingRemoved for the sender's side.
func WithOutgoingRemoved(list []OutgoingRequest, entry OutgoingRequest) []OutgoingRequest {
	out := make([]OutgoingRequest, 0, len(list))
	for _, r := range list {
		if r.RequestedUser == entry.RequestedUser && r.MatchID == entry.MatchID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// WithMatchIDAdded unions a matchId into a currentMatches/pastMatches list.
// Duplicate-safe: appending an already-present id returns the list unchanged.
func WithMatchIDAdded(list []string, matchID string) []string {
	for _, id := range list {
		if id == matchID {
			return list
		}
	}
	return append(append([]string{}, list...), matchID)
}
