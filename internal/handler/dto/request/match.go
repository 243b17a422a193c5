package request

type JoinMatchRequest struct {
	TeamID string `json:"team_id" binding:"required,uuid"`
}
