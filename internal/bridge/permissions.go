package bridge

import (
	"context"
	"fmt"

	"github.com/meltforce/healthbridge/internal/mapping"
	"github.com/meltforce/healthbridge/internal/models"
)

// PermissionRequest names one (type, access) pair to ask the user for.
type PermissionRequest struct {
	Type   models.DataType   `json:"type"`
	Access models.AccessType `json:"access"`
}

// RequestPermissions maps the unified pairs to native identifiers and
// presents the platform's authorization flow.
func (s *Service) RequestPermissions(ctx context.Context, perms []PermissionRequest) (bool, error) {
	if len(perms) == 0 {
		return false, fmt.Errorf("%w: no permissions requested", models.ErrInvalidParameters)
	}
	if err := s.ensureAvailable(ctx); err != nil {
		return false, err
	}

	var readTypes, writeTypes []string
	for _, p := range perms {
		nativeType, err := mapping.DataTypeToPlatform(p.Type, s.platform)
		if err != nil {
			return false, err
		}
		switch p.Access {
		case models.AccessRead:
			readTypes = append(readTypes, nativeType)
		case models.AccessWrite:
			writeTypes = append(writeTypes, nativeType)
		default:
			return false, fmt.Errorf("%w: access %q", models.ErrInvalidParameters, p.Access)
		}
	}

	ok, err := s.transport.RequestAuthorization(ctx, readTypes, writeTypes)
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrPermissionDenied, err)
	}
	return ok, nil
}

// PermissionStatus reconciles the platform's authorization semantics into
// the unified 4-state model. The status is recomputed from live platform
// state on every call.
//
// HealthKit structurally cannot report read denial: read-access queries on
// it always return not_determined, even after an explicit denial. That is
// documented platform behavior reproduced here, not a defect.
func (s *Service) PermissionStatus(ctx context.Context, t models.DataType, access models.AccessType) (models.PermissionStatus, error) {
	if access != models.AccessRead && access != models.AccessWrite {
		return "", fmt.Errorf("%w: access %q", models.ErrInvalidParameters, access)
	}
	nativeType, err := mapping.DataTypeToPlatform(t, s.platform)
	if err != nil {
		return "", err
	}

	if err := s.ensureAvailable(ctx); err != nil {
		return models.StatusUnavailable, nil
	}

	if access == models.AccessRead && s.platform == models.PlatformHealthKit {
		return models.StatusNotDetermined, nil
	}

	grants, err := s.transport.GrantedTypes(ctx, access)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	granted, decided := grants[nativeType]
	switch {
	case !decided:
		return models.StatusNotDetermined, nil
	case granted:
		return models.StatusAuthorized, nil
	default:
		return models.StatusDenied, nil
	}
}
