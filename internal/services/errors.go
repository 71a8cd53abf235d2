package services

import (
  "errors"

  "gorm.io/gorm"
)

// Sentinel errors for the error kinds callers need to distinguish. Handlers
// translate these into stable HTTP statuses and machine codes; a scope
// mismatch is reported as ErrNotFound on purpose, indistinguishable from
// nonexistence.
var (
  ErrNotFound           = errors.New("not found")
  ErrVariantNotFound    = errors.New("variant not found")
  ErrInvalidContentType = errors.New("invalid content type")
  ErrMissingField       = errors.New("missing required field")
  ErrInvalidField       = errors.New("invalid field value")
  ErrOrderMismatch      = errors.New("order list must match the current sibling set")
  ErrConflict           = errors.New("constraint conflict")
  ErrUnauthorized       = errors.New("invalid credentials")
)

// translateDBError maps storage-level constraint violations onto the service
// taxonomy. Conflicts race with concurrent writers and cannot be prevented by
// prior validation; they are translated here, never retried.
func translateDBError(err error) error {
  if err == nil {
    return nil
  }
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return ErrConflict
  }
  if errors.Is(err, gorm.ErrForeignKeyViolated) {
    return ErrConflict
  }
  return err
}
