package core

import "github.com/google/uuid"

// Identifier names scene entities and jobs across systems.
type Identifier uuid.UUID

var InvalidID = Identifier(uuid.Nil)

func NewIdentifier() Identifier {
	return Identifier(uuid.New())
}

func (id Identifier) IsValid() bool {
	return id != InvalidID
}

func (id Identifier) String() string {
	return uuid.UUID(id).String()
}

// ParseIdentifier is the inverse of String.
func ParseIdentifier(s string) (Identifier, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return InvalidID, err
	}
	return Identifier(u), nil
}
