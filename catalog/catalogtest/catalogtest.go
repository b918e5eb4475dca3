// Package catalogtest provides a small fixed catalog for tests.
package catalogtest

import (
	_ "embed"

	"github.com/rise-and-shine/catalog/access"
	"github.com/rise-and-shine/catalog/catalog"
)

//go:embed fixture.yaml
var fixture []byte

// Fixture is the raw YAML snapshot behind Repository.
func Fixture() []byte {
	return fixture
}

// Snapshot decodes the fixture.
func Snapshot() catalog.Snapshot {
	s, err := catalog.ParseSnapshot("fixture.yaml", fixture)
	if err != nil {
		panic(err)
	}
	return s
}

// Repository builds the fixture catalog: dataset mock1 with three patients,
// enrollments, samples, diagnoses, two variant sets and three variants, and
// dataset mock2 with a single patient.
func Repository() *catalog.Repository {
	repo, err := Snapshot().Build()
	if err != nil {
		panic(err)
	}
	return repo
}

// FullAccess grants tier 4 on both fixture datasets.
func FullAccess() access.Map {
	return access.Map{"mock1": 4, "mock2": 4}
}
