package resilience

// BillerHealth is one biller+operation's breaker condition, for operational
// monitoring.
type BillerHealth struct {
	Key      string `json:"key"`
	Status   Status `json:"status"`
	Failures int    `json:"failures"`
}

// HealthAggregator reports every tracked breaker key's state.
type HealthAggregator struct {
	Store BreakerStore
}

func (h *HealthAggregator) Report() ([]BillerHealth, error) {
	states, err := h.Store.All()
	if err != nil {
		return nil, err
	}

	report := make([]BillerHealth, 0, len(states))
	for key, st := range states {
		report = append(report, BillerHealth{
			Key:      key,
			Status:   st.Status,
			Failures: st.Failures,
		})
	}
	return report, nil
}

// Healthy reports whether no circuit is currently open.
func (h *HealthAggregator) Healthy() (bool, error) {
	states, err := h.Store.All()
	if err != nil {
		return false, err
	}
	for _, st := range states {
		if st.Status == StatusOpen {
			return false, nil
		}
	}
	return true, nil
}
