package services

import "github.com/google/uuid"

// Scope is the owning context a page/block operation is restricted to:
// either a lesson's principal content or one named variant's content.
// Exactly one of the two ids is set. Obtain one through
// VariantService.ResolveScope so the owner's existence has been checked.
type Scope struct {
  LessonID  *uuid.UUID
  VariantID *uuid.UUID
}

func LessonScope(lessonID uuid.UUID) Scope {
  return Scope{LessonID: &lessonID}
}

func VariantScope(variantID uuid.UUID) Scope {
  return Scope{VariantID: &variantID}
}

func (s Scope) IsVariant() bool {
  return s.VariantID != nil
}

// Key is a stable cache-key fragment for the scope.
func (s Scope) Key() string {
  if s.VariantID != nil {
    return "variant:" + s.VariantID.String()
  }
  if s.LessonID != nil {
    return "lesson:" + s.LessonID.String()
  }
  return "none"
}
