package service

import (
	"context"
	"fmt"
	"time"

	"retail-analytics-service/internal/model"
	"retail-analytics-service/internal/repository"
)

// ObservationService validates incoming observations against their
// coefficient and hands them to the batch worker.
type ObservationService interface {
	ProcessObservation(ctx context.Context, req model.ObservationRequest) error
}

type observationService struct {
	catalog repository.CatalogRepository
	worker  ObservationWorker
}

// NewObservationService constructs an observationService.
func NewObservationService(catalog repository.CatalogRepository, worker ObservationWorker) ObservationService {
	return &observationService{catalog: catalog, worker: worker}
}

func (s *observationService) ProcessObservation(ctx context.Context, req model.ObservationRequest) error {
	obs, err := s.buildObservation(ctx, req)
	if err != nil {
		return err
	}
	s.worker.Enqueue(obs)
	return nil
}

// buildObservation checks the payload against the coefficient's declared
// value type and normalizes it into the store row.
func (s *observationService) buildObservation(ctx context.Context, req model.ObservationRequest) (model.Observation, error) {
	if req.VisitID == 0 {
		return model.Observation{}, &ValidationError{Message: "visit_id is required"}
	}
	if req.CoefficientID == 0 {
		return model.Observation{}, &ValidationError{Message: "coefficient_id is required"}
	}
	if req.Outlet.OutletID == 0 {
		return model.Observation{}, &ValidationError{Message: "outlet.outlet_id is required"}
	}
	if req.VisitStartDate == 0 {
		return model.Observation{}, &ValidationError{Message: "visit_start_date is required"}
	}

	coefficient, err := s.catalog.GetCoefficient(ctx, req.CoefficientID)
	if err != nil {
		return model.Observation{}, err
	}
	if !coefficient.IsActive {
		return model.Observation{}, &ValidationError{
			Message: fmt.Sprintf("coefficient %q is inactive", coefficient.Code),
		}
	}

	switch coefficient.ValueType {
	case model.ValueNumeric:
		if req.ValueNumeric == nil {
			return model.Observation{}, &ValidationError{
				Message: fmt.Sprintf("coefficient %q expects value_numeric", coefficient.Code),
			}
		}
	case model.ValueText:
		if req.ValueText == nil {
			return model.Observation{}, &ValidationError{
				Message: fmt.Sprintf("coefficient %q expects value_text", coefficient.Code),
			}
		}
	case model.ValueBoolean:
		if req.ValueBoolean == nil {
			return model.Observation{}, &ValidationError{
				Message: fmt.Sprintf("coefficient %q expects value_boolean", coefficient.Code),
			}
		}
	default:
		return model.Observation{}, fmt.Errorf("coefficient %q has unknown value type %q", coefficient.Code, coefficient.ValueType)
	}

	sourceType := req.SourceType
	if !sourceType.Valid() {
		sourceType = coefficient.SourceType
	}

	var productID int64
	if req.ProductID != nil {
		productID = *req.ProductID
	}

	return model.Observation{
		VisitID:        req.VisitID,
		CoefficientID:  req.CoefficientID,
		ProductID:      productID,
		SourceType:     sourceType,
		ValueNumeric:   req.ValueNumeric,
		ValueText:      req.ValueText,
		ValueBoolean:   req.ValueBoolean,
		VisitStartDate: time.Unix(req.VisitStartDate, 0).UTC(),
		CreatedAt:      time.Now().UTC(),
		Outlet:         req.Outlet,
		Notes:          req.Notes,
	}, nil
}
