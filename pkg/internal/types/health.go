package types

// HealthStatus 单个组件的健康状态.
type HealthStatus struct {
	Component string `json:"component"`
	Status    string `json:"status"` // ok | unhealthy | disabled
	Type      string `json:"type,omitempty"`
	Error     string `json:"error,omitempty"`
}
