package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
)

// Guest is the fake identity attached to a generated request.
type Guest struct {
	Name  string
	Email string
}

// GuestFactory draws guest identities from the simulation's random source, so equal seeds yield equal guests.
type GuestFactory struct {
	fake faker.Faker
}

func NewGuestFactory(rng *rand.Rand) *GuestFactory {
	return &GuestFactory{fake: faker.NewWithSeed(rng)}
}

func (gf *GuestFactory) CreateGuest() Guest {
	return Guest{
		Name:  gf.fake.Person().Name(),
		Email: gf.fake.Internet().Email(),
	}
}
