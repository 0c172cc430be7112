package response

import (
	"consult-booking/internal/data/entity"
)

type ConsultantResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

func ConsultantToResponse(consultant *entity.Consultant) ConsultantResponse {
	return ConsultantResponse{
		ID:             consultant.ID.String(),
		Name:           consultant.Name,
		Specialization: consultant.Specialization,
	}
}
