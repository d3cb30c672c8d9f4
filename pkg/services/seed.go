package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed/heat_buckets.yaml
var heatBucketsYAML []byte

// bucketSeed is one canonical heat bucket definition from the embedded seed
// data.
type bucketSeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	ScovilleMin *int   `yaml:"scoville_min"`
	ScovilleMax *int   `yaml:"scoville_max"`
	SortOrder   int    `yaml:"sort_order"`
}

type seedData struct {
	Buckets []bucketSeed `yaml:"buckets"`
	Species []string     `yaml:"species"`
}

var loadedSeed = mustLoadSeed()

func mustLoadSeed() seedData {
	var data seedData
	if err := yaml.Unmarshal(heatBucketsYAML, &data); err != nil {
		panic(fmt.Sprintf("invalid embedded heat bucket seed: %v", err))
	}
	return data
}

// heatBucketSeeds returns the seven canonical bucket definitions.
func heatBucketSeeds() []bucketSeed {
	return loadedSeed.Buckets
}

// IsKnownSpecies reports whether s is one of the recognized Capsicum species.
// Trait values outside this enumeration are never promoted into the species
// column.
func IsKnownSpecies(s string) bool {
	for _, known := range loadedSeed.Species {
		if known == s {
			return true
		}
	}
	return false
}
