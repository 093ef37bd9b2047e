package models

// MatchParticipant records one user's confirmation state inside a match.
type MatchParticipant struct {
	UID      string `dynamodbav:"uid" json:"uid"`
	Status   string `dynamodbav:"status" json:"status"`
	JoinedAt string `dynamodbav:"joinedAt" json:"joinedAt"`
}

// Match is one proposed or confirmed pairing between students.
type Match struct {
	MatchID              string             `dynamodbav:"matchId" json:"matchId"`
	Users                []MatchParticipant `dynamodbav:"users" json:"users"`
	Location             string             `dynamodbav:"location" json:"location"`
	Description          string             `dynamodbav:"description" json:"description"`
	CreatedAt            string             `dynamodbav:"createdAt" json:"createdAt"`
	AwaitingConfirmation bool               `dynamodbav:"awaitingConfirmation" json:"awaitingConfirmation"`
}

// Peers returns the participants other than uid, preserving users-array order.
func (m Match) Peers(uid string) []MatchParticipant {
	var peers []MatchParticipant
	for _, u := range m.Users {
		if u.UID != uid {
			peers = append(peers, u)
		}
	}
	return peers
}

// MatchesTable is the DynamoDB table name for match documents
const MatchesTable = "matches"
