package handlers

import (
	"strings"
)

const (
	minAllowedAge      = 18
	maxAllowedAge      = 100
	defaultMinAge      = 18
	defaultMaxAge      = 60
	defaultMaxDistance = 50
)

var allowedGenders = map[string]struct{}{
	"male":   {},
	"female": {},
	"other":  {},
}

func validatePreferencesRequest(req updatePreferencesRequest) string {
	if req.MinAge < minAllowedAge {
		return "minAge must be at least 18"
	}
	if req.MaxAge > maxAllowedAge {
		return "maxAge must be at most 100"
	}
	if req.MinAge > req.MaxAge {
		return "minAge must not exceed maxAge"
	}
	if req.MaxDistance <= 0 {
		return "maxDistance must be greater than 0"
	}
	if req.PreferredGender != nil {
		if err := validateGender(*req.PreferredGender); err != "" {
			return err
		}
	}
	return ""
}

// validateGender accepts an empty value, meaning no preference.
func validateGender(gender string) string {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender == "" {
		return ""
	}
	if _, ok := allowedGenders[gender]; !ok {
		return "preferredGender must be one of: male, female, other"
	}
	return ""
}
