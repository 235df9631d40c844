package value

import (
	"fmt"

	"github.com/google/uuid"
)

type SearchID uuid.UUID

func NewSearchID() SearchID {
	return SearchID(uuid.New())
}

func ParseSearchID(s string) (SearchID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SearchID{}, fmt.Errorf("uuid.Parse: %w", err)
	}

	return SearchID(id), nil
}

func (id SearchID) String() string {
	return uuid.UUID(id).String()
}
