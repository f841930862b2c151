package metrics

// IncrementRoomCreated increments room creation counter
func (m *Metrics) IncrementRoomCreated() {
	m.safeExecute("IncrementRoomCreated", func() {
		m.RoomCreatedTotal.Inc()
	})
}

// IncrementTokenIssued increments token issue counter
func (m *Metrics) IncrementTokenIssued() {
	m.safeExecute("IncrementTokenIssued", func() {
		m.TokenIssuedTotal.Inc()
	})
}

// RecordOrphaned counts a provider resource with no matching local record.
// kind is "room" or "token".
func (m *Metrics) RecordOrphaned(kind string) {
	m.safeExecute("RecordOrphaned", func() {
		m.OrphanedProviderTotal.WithLabelValues(kind).Inc()
	})
}

// RecordBroadcast records one broadcast and how many clients received it
func (m *Metrics) RecordBroadcast(delivered int) {
	m.safeExecute("RecordBroadcast", func() {
		m.BroadcastsTotal.Inc()
		m.BroadcastDeliveriesTotal.Add(float64(delivered))
	})
}

// SetWSConnections sets the registered websocket connection gauge
func (m *Metrics) SetWSConnections(count int) {
	m.safeExecute("SetWSConnections", func() {
		m.WSConnectionsActive.Set(float64(count))
	})
}

// SetRoomsTotal sets total rooms gauge
func (m *Metrics) SetRoomsTotal(count int64) {
	m.safeExecute("SetRoomsTotal", func() {
		m.RoomsTotal.Set(float64(count))
	})
}

// SetParticipantsTotal sets total participants gauge
func (m *Metrics) SetParticipantsTotal(count int64) {
	m.safeExecute("SetParticipantsTotal", func() {
		m.ParticipantsTotal.Set(float64(count))
	})
}
