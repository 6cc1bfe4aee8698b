package metrics

// RecordEventPublished records the outcome of one broker publish
func (m *Metrics) RecordEventPublished(event string, err error) {
	m.safeExecute("RecordEventPublished", func() {
		if err != nil {
			m.EventPublishErrors.WithLabelValues(event).Inc()
			return
		}
		m.EventsPublishedTotal.WithLabelValues(event).Inc()
	})
}

// RecordStoreError counts a failed store operation
func (m *Metrics) RecordStoreError(operation string) {
	m.safeExecute("RecordStoreError", func() {
		m.StoreErrorsTotal.WithLabelValues(operation).Inc()
	})
}

// WebSocketOpened records a new websocket subscriber
func (m *Metrics) WebSocketOpened() {
	m.safeExecute("WebSocketOpened", func() {
		m.WebSocketConnectionsTotal.Inc()
		m.WebSocketActive.Inc()
	})
}

// WebSocketClosed records a websocket subscriber going away
func (m *Metrics) WebSocketClosed() {
	m.safeExecute("WebSocketClosed", func() {
		m.WebSocketActive.Dec()
	})
}
