package request

type CreateConsultantRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
}
