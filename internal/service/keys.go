package service

// Key prefixes of the collaboration state in the shared store. The metrics
// collector and the activity trim job scan by these.
const (
	PresenceKeyPrefix = "presence:"
	DocumentKeyPrefix = "document:"
	SessionKeyPrefix  = "collab:session:"
	ActivityKeyPrefix = "activity:workspace:"
)

func presencePrefix(workspaceID string) string {
	return PresenceKeyPrefix + workspaceID + ":"
}

func presenceKey(workspaceID, userID string) string {
	return presencePrefix(workspaceID) + userID
}

func documentVersionKey(documentID string) string {
	return DocumentKeyPrefix + documentID + ":version"
}

func sessionKey(workspaceID, sessionID string) string {
	return SessionKeyPrefix + workspaceID + ":" + sessionID
}

func activityKey(workspaceID string) string {
	return ActivityKeyPrefix + workspaceID
}
