package app

import (
	"strings"

	"sheetlens/domain/core"
	"sheetlens/internal/errors"
)

// resolve maps a repository or domain error onto the application error
// vocabulary. resource is the capitalized noun used in messages.
func resolve(err error, resource string) error {
	if err == nil {
		return nil
	}
	switch {
	case core.IsNotFoundError(err):
		return errors.NotFound(resource)
	case core.IsOwnershipError(err):
		return errors.Forbidden(strings.ToLower(resource))
	}
	if errors.GetCode(err) == errors.CodeInternalError {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return err
}

func requireIdentity(id core.Identity) error {
	if id.UserID.IsEmpty() {
		return errors.Unauthorized("Authentication required")
	}
	return nil
}

func requireAdmin(id core.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return errors.Forbidden("resource")
	}
	return nil
}
