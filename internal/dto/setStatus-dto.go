package dto

type SetStatusRequest struct {
	Status string `json:"status" validate:"required" example:"Accepted"`
	Note   string `json:"note,omitempty" example:"documents verified"`
}
