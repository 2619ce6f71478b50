package models

// brokerNames maps broker IDs to display names. Kept in code for now;
// listings fall back to the raw ID for brokers not in the map.
var brokerNames = map[string]string{
	"broker-001": "C.H. Robinson",
	"broker-002": "XPO Logistics",
	"broker-003": "TQL (Total Quality Logistics)",
	"broker-004": "Coyote Logistics",
	"broker-005": "Echo Global Logistics",
	"broker-006": "Landstar System",
	"broker-007": "J.B. Hunt Transport Services",
	"broker-008": "Schneider National",
	"broker-009": "Werner Enterprises",
	"broker-010": "Knight-Swift Transportation",
	"broker-011": "Hub Group",
	"broker-012": "Transplace",
	"broker-013": "Arrive Logistics",
	"broker-014": "GlobalTranz",
	"broker-015": "Convoy",
	"broker-016": "Uber Freight",
	"broker-017": "Loadsmart",
	"broker-018": "Freightos",
	"broker-019": "Flexport",
	"broker-020": "Redwood Logistics",
}

// BrokerName resolves a broker ID to its display name.
func BrokerName(brokerID string) string {
	if name, ok := brokerNames[brokerID]; ok {
		return name
	}
	return brokerID
}
