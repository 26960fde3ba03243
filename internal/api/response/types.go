package response

// Status bodies for successful writes
const (
	Updated  = "Updated"
	Warned   = "Warned"
	Promoted = "Promoted"
	Demoted  = "Demoted"
	Followed = "Followed"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
