package metrics

// IncrementPresenceJoin counts a workspace join
func (m *Metrics) IncrementPresenceJoin() {
	m.safeExecute("IncrementPresenceJoin", func() {
		m.PresenceJoinsTotal.Inc()
	})
}

// IncrementPresenceLeave counts a workspace leave
func (m *Metrics) IncrementPresenceLeave() {
	m.safeExecute("IncrementPresenceLeave", func() {
		m.PresenceLeavesTotal.Inc()
	})
}

// IncrementDocumentUpdate counts an accepted document update
func (m *Metrics) IncrementDocumentUpdate() {
	m.safeExecute("IncrementDocumentUpdate", func() {
		m.DocumentUpdatesTotal.Inc()
	})
}

// IncrementSessionStarted counts a started session
func (m *Metrics) IncrementSessionStarted() {
	m.safeExecute("IncrementSessionStarted", func() {
		m.SessionsStartedTotal.Inc()
	})
}

// IncrementSessionEnded counts a session ended by its host
func (m *Metrics) IncrementSessionEnded() {
	m.safeExecute("IncrementSessionEnded", func() {
		m.SessionsEndedTotal.Inc()
	})
}

// SetPresentUsers sets the live presence gauge
func (m *Metrics) SetPresentUsers(count int) {
	m.safeExecute("SetPresentUsers", func() {
		m.PresentUsers.Set(float64(count))
	})
}

// SetActiveSessions sets the stored sessions gauge
func (m *Metrics) SetActiveSessions(count int) {
	m.safeExecute("SetActiveSessions", func() {
		m.ActiveSessions.Set(float64(count))
	})
}
