package usecase

import (
	"context"
	"fmt"
	"time"

	"consult-booking/internal/data/entity"
	"consult-booking/internal/data/repository"
	"consult-booking/internal/dto/request"
	"consult-booking/internal/dto/response"
	"consult-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConsultantService interface {
	Create(ctx context.Context, req *request.CreateConsultantRequest) (*response.ConsultantResponse, error)
	List(ctx context.Context) ([]response.ConsultantResponse, error)
}

type consultantService struct {
	repo repository.ConsultantRepository
	log  *zap.Logger
}

func NewConsultantService(repo repository.ConsultantRepository, log *zap.Logger) ConsultantService {
	return &consultantService{
		repo: repo,
		log:  log.With(zap.String("service", "consultant")),
	}
}

func (s *consultantService) Create(ctx context.Context, req *request.CreateConsultantRequest) (*response.ConsultantResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create consultant validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", utils.ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	consultant := &entity.Consultant{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           req.Name,
		Specialization: req.Specialization,
	}

	if err := s.repo.Create(ctx, consultant); err != nil {
		s.log.Error("Failed to create consultant", zap.Error(err))
		return nil, fmt.Errorf("%w: create consultant: %v", utils.ErrStore, err)
	}

	s.log.Info("Consultant created",
		zap.String("consultant_id", consultant.ID.String()),
		zap.String("name", consultant.Name))

	resp := response.ConsultantToResponse(consultant)
	return &resp, nil
}

func (s *consultantService) List(ctx context.Context) ([]response.ConsultantResponse, error) {
	consultants, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list consultants: %v", utils.ErrStore, err)
	}

	out := make([]response.ConsultantResponse, 0, len(consultants))
	for _, consultant := range consultants {
		out = append(out, response.ConsultantToResponse(consultant))
	}

	return out, nil
}
