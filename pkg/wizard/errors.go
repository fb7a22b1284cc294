package wizard

import (
	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeStepInvalid    = "WIZARD_STEP_INVALID"
	ErrCodeStepOutOfRange = "WIZARD_STEP_OUT_OF_RANGE"
	ErrCodeNotValidated   = "WIZARD_NOT_VALIDATED"
)

var (
	ErrStepInvalid = apperrors.New("current step has validation errors", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeStepInvalid)
	ErrStepOutOfRange = apperrors.New("step index out of range", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeStepOutOfRange)
	ErrNotValidated = apperrors.New("all steps must be validated before submission", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeNotValidated)
)
