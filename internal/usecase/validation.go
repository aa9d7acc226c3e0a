package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/zapvendas/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func joinValidationErrors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return validationError("validation failed: " + strings.Join(parts, ", "))
}

func ValidateCreateOrderInput(input CreateOrderInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"leadId", "is required"})
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		errors = append(errors, ValidationError{"phoneNumber", "is required"})
	} else if !isValidPhoneNumber(input.PhoneNumber) {
		errors = append(errors, ValidationError{"phoneNumber", "must be a valid phone number"})
	}

	if len(input.Products) == 0 {
		errors = append(errors, ValidationError{"products", "must be a non-empty array"})
	}
	for i, p := range input.Products {
		field := fmt.Sprintf("products[%d]", i)
		if strings.TrimSpace(p.ID) == "" {
			errors = append(errors, ValidationError{field + ".id", "is required"})
		}
		if strings.TrimSpace(p.Name) == "" {
			errors = append(errors, ValidationError{field + ".name", "is required"})
		}
		if p.Quantity <= 0 {
			errors = append(errors, ValidationError{field + ".quantity", "must be greater than zero"})
		}
		if p.Price < 0 {
			errors = append(errors, ValidationError{field + ".price", "must not be negative"})
		}
	}

	if input.TotalAmount != nil && *input.TotalAmount < 0 {
		errors = append(errors, ValidationError{"totalAmount", "must not be negative"})
	}

	return errors
}

func ValidateSendMessageInput(input SendMessageInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.PhoneNumber) == "" {
		errors = append(errors, ValidationError{"phoneNumber", "is required"})
	} else if !isValidPhoneNumber(input.PhoneNumber) {
		errors = append(errors, ValidationError{"phoneNumber", "must be a valid phone number"})
	}
	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	}
	return errors
}

func ValidateBroadcastInput(input BroadcastInput) []ValidationError {
	var errors []ValidationError
	if len(input.PhoneNumbers) == 0 {
		errors = append(errors, ValidationError{"phoneNumbers", "must be a non-empty array"})
	}
	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	}
	return errors
}

func isValidPhoneNumber(phone string) bool {
	digits := entity.NormalizePhone(phone)
	return len(digits) >= 10 && len(digits) <= 15
}
