package ports

import "kbstudio/internal/domain"

// DocumentValidator checks a workflow document against the expected shape
type DocumentValidator interface {
	Validate(doc domain.Value) error
}
