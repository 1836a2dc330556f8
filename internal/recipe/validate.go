package recipe

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/apperr"
	"foodgram/internal/validation"
)

const fieldRequired = "This field is required."

// ValidateTags checks that at least one tag is given and none repeats.
// Existence is checked against the catalog separately.
func ValidateTags(ids []int64) error {
	if len(ids) == 0 {
		return apperr.Invalid("tags", "Select at least one tag.")
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return apperr.Invalid("tags", fmt.Sprintf("Tag %d is listed more than once.", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateIngredients checks that at least one ingredient is given, none
// repeats and every amount lies within limits.
func ValidateIngredients(items []IngredientInput, limits Limits) error {
	if len(items) == 0 {
		return apperr.Invalid("ingredients", "Add at least one ingredient.")
	}
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return apperr.Invalid("ingredients", fmt.Sprintf("Ingredient %d is listed more than once.", item.ID))
		}
		seen[item.ID] = struct{}{}

		if item.Amount <= 0 || item.Amount < limits.MinAmount {
			return apperr.Invalid("ingredients",
				fmt.Sprintf("Amount of ingredient %d must be at least %d.", item.ID, max(limits.MinAmount, 1)))
		}
		if item.Amount > limits.MaxAmount {
			return apperr.Invalid("ingredients",
				fmt.Sprintf("Amount of ingredient %d must be at most %d.", item.ID, limits.MaxAmount))
		}
	}
	return nil
}

// validateInput runs the payload checks that need no database access.
// Creation requires every field; updates require tags and ingredients.
func validateInput(in Input, limits Limits, creating bool) error {
	fields := apperr.FieldErrors{}
	merge(fields, validation.ValidateStruct(in))

	if in.Tags == nil {
		fields.Add("tags", fieldRequired)
	} else {
		merge(fields, ValidateTags(in.Tags))
	}
	if in.Ingredients == nil {
		fields.Add("ingredients", fieldRequired)
	} else if _, bad := fields["ingredients"]; !bad {
		merge(fields, ValidateIngredients(in.Ingredients, limits))
	}

	if in.Image == nil {
		if creating {
			fields.Add("image", fieldRequired)
		}
	} else if strings.TrimSpace(*in.Image) == "" {
		fields.Add("image", "No file was submitted.")
	}

	if in.Name == nil {
		if creating {
			fields.Add("name", fieldRequired)
		}
	} else if strings.TrimSpace(*in.Name) == "" {
		fields.Add("name", "This field may not be blank.")
	}

	if in.Text == nil {
		if creating {
			fields.Add("text", fieldRequired)
		}
	} else if BlankText(*in.Text) {
		fields.Add("text", "This field may not be blank.")
	}

	if in.CookingTime == nil {
		if creating {
			fields.Add("cooking_time", fieldRequired)
		}
	} else if t := *in.CookingTime; t < limits.MinCookingTime {
		fields.Add("cooking_time", fmt.Sprintf("Ensure this value is greater than or equal to %d.", limits.MinCookingTime))
	} else if t > limits.MaxCookingTime {
		fields.Add("cooking_time", fmt.Sprintf("Ensure this value is less than or equal to %d.", limits.MaxCookingTime))
	}

	return fields.Err()
}

// merge copies the field messages of an *apperr.Error into fields.
func merge(fields apperr.FieldErrors, err error) {
	var appErr *apperr.Error
	if err == nil || !errors.As(err, &appErr) {
		return
	}
	for k, msgs := range appErr.Fields {
		for _, m := range msgs {
			fields.Add(k, m)
		}
	}
}
