package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/utils"
	"go.uber.org/zap"
)

type DeclarationRenderFunc func(req models.DeclarationRequest) ([]byte, error)

// DeclarationService runs one issuance: locate, gate, render, audit.
type DeclarationService struct {
	locator *StudentLocator
	render  DeclarationRenderFunc
	audit   AuditRecorder
	now     func() time.Time
	logger  *zap.Logger
}

func NewDeclarationService(locator *StudentLocator, render DeclarationRenderFunc, audit AuditRecorder, logger *zap.Logger) *DeclarationService {
	return &DeclarationService{
		locator: locator,
		render:  render,
		audit:   audit,
		now:     utils.BrasiliaNow,
		logger:  logger,
	}
}

// Generate issues a declaration for the student with rawCPF on behalf of
// issuerEmail. A DISTRATO status always yields *BlockedError. Any status
// other than ATIVO yields *ConfirmationRequiredError unless force is set.
// A failed audit write is logged and the document is still returned.
func (s *DeclarationService) Generate(ctx context.Context, issuerEmail, rawCPF string, force bool) (*models.IssuedDeclaration, error) {
	if strings.TrimSpace(issuerEmail) == "" {
		return nil, ErrUnauthenticated
	}

	student, err := s.locator.FindByCPF(ctx, rawCPF)
	if err != nil {
		return nil, err
	}

	req := models.NewDeclarationRequest(*student, rawCPF)
	eligibility := EvaluateEligibility(req.Status)

	switch {
	case eligibility == EligibilityBlocked:
		s.logger.Info("Declaration refused",
			zap.String("issuer", issuerEmail),
			zap.String("cpf", req.CPF),
			zap.String("status", req.Status))
		return nil, &BlockedError{Status: req.Status}
	case eligibility == EligibilityWarn && !force:
		return nil, &ConfirmationRequiredError{Status: req.Status}
	}

	pdf, err := s.render(req)
	if err != nil {
		return nil, fmt.Errorf("failed to render declaration for %s: %w", req.CPF, err)
	}

	warning := eligibility == EligibilityWarn
	event := models.DeclarationEvent{
		EmailUsuario:    issuerEmail,
		NomeAluno:       req.Name,
		CPFAluno:        req.CPF,
		StatusPagamento: req.Status,
		WarningExibido:  warning,
		DataGeracao:     s.now(),
	}
	if err := s.audit.RecordDeclaration(ctx, event); err != nil {
		s.logger.Error("Failed to record declaration audit, delivering anyway",
			zap.String("issuer", issuerEmail),
			zap.String("cpf", req.CPF),
			zap.Error(err))
	}

	s.logger.Info("Declaration issued",
		zap.String("issuer", issuerEmail),
		zap.String("cpf", req.CPF),
		zap.String("status", req.Status),
		zap.Bool("warning", warning),
		zap.Int("bytes", len(pdf)))

	return &models.IssuedDeclaration{
		Filename: utils.DeclarationFilename(req.Name),
		PDF:      pdf,
		Status:   req.Status,
		Warning:  warning,
	}, nil
}

// IsExpected reports whether err is a business outcome rather than a fault.
func IsExpected(err error) bool {
	var blocked *BlockedError
	var confirm *ConfirmationRequiredError
	return errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrInvalidCPF) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.As(err, &blocked) ||
		errors.As(err, &confirm)
}
