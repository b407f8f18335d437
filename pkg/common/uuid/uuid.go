package uuid

import (
	"github.com/gofrs/uuid/v5"
)

type UUID uuid.UUID

var Nil = UUID(uuid.Nil)

func NewV4() UUID {
	return UUID(uuid.Must(uuid.NewV4()))
}

func FromString(s string) (UUID, error) {
	u, err := uuid.FromString(s)
	if err != nil {
		return Nil, err
	}
	return UUID(u), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) IsNil() bool {
	return uuid.UUID(u) == uuid.Nil
}

func (u UUID) MarshalText() ([]byte, error) {
	return uuid.UUID(u).MarshalText()
}

func (u *UUID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(u).UnmarshalText(text)
}
