// Package location models the hierarchical catalog of unlockable places.
package location

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/mythosforge/realmledger/internal/platform/errors"
)

// Biome describes the terrain family of a location.
type Biome int

// Difficulty describes the challenge tier of a location.
type Difficulty int

const (
	// BiomeUnknown represents an unclassified biome.
	BiomeUnknown Biome = iota
	// BiomeForest indicates temperate woodland.
	BiomeForest
	// BiomeDesert indicates arid dunes and canyons.
	BiomeDesert
	// BiomeTundra indicates frozen plains.
	BiomeTundra
	// BiomeSwamp indicates wetland and marsh.
	BiomeSwamp
	// BiomeMountain indicates high peaks and passes.
	BiomeMountain
	// BiomeCoast indicates shorelines and reefs.
	BiomeCoast
	// BiomePlains indicates open grassland.
	BiomePlains
	// BiomeVolcanic indicates lava fields and ashlands.
	BiomeVolcanic
	// BiomeAstral indicates otherworldly planes.
	BiomeAstral
	// BiomeRuins indicates ancient abandoned structures.
	BiomeRuins
)

const (
	// DifficultyUnspecified represents an invalid difficulty value.
	DifficultyUnspecified Difficulty = iota
	// DifficultyNovice is the entry tier.
	DifficultyNovice
	// DifficultyAdept is the second tier.
	DifficultyAdept
	// DifficultyVeteran is the third tier.
	DifficultyVeteran
	// DifficultyElite is the fourth tier.
	DifficultyElite
	// DifficultyMythic is the hardest tier.
	DifficultyMythic
)

var (
	// ErrSlugEmpty indicates a missing location slug.
	ErrSlugEmpty = apperrors.New(apperrors.CodeLocationSlugEmpty, "location slug is required")
	// ErrNameEmpty indicates a missing display name.
	ErrNameEmpty = apperrors.New(apperrors.CodeLocationNameEmpty, "location display name is required")
	// ErrInvalidBiome indicates an out-of-range biome value.
	ErrInvalidBiome = apperrors.New(apperrors.CodeLocationInvalidBiome, "location biome is not recognized")
	// ErrInvalidDifficulty indicates an out-of-range difficulty value.
	ErrInvalidDifficulty = apperrors.New(apperrors.CodeLocationInvalidDifficulty, "location difficulty is not recognized")
)

// Location represents one entry in the unlockable location tree.
type Location struct {
	ID          uint64
	Slug        string
	DisplayName string
	Description string
	Biome       Biome
	Difficulty  Difficulty
	// ParentID refers to an existing location, 0 marks a root.
	ParentID uint64
	Active   bool
	SceneURI string
	// Controller is the address holding in-world control, zero when unclaimed.
	Controller  common.Address
	MetadataURI string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateLocationInput describes the fields needed to register a location.
type CreateLocationInput struct {
	Slug        string
	DisplayName string
	Description string
	Biome       Biome
	Difficulty  Difficulty
	ParentID    uint64
	SceneURI    string
	Controller  common.Address
	MetadataURI string
}

// UpdateLocationInput carries a partial metadata update. Nil fields are left
// unchanged; a set pointer force-assigns the value, including zero values.
type UpdateLocationInput struct {
	DisplayName *string
	Description *string
	Biome       *Biome
	Difficulty  *Difficulty
	ParentID    *uint64
	SceneURI    *string
	MetadataURI *string
}

// IsValidBiome reports whether b is a recognized biome, including unknown.
func IsValidBiome(b Biome) bool {
	return b >= BiomeUnknown && b <= BiomeRuins
}

// IsValidDifficulty reports whether d is one of the five difficulty tiers.
func IsValidDifficulty(d Difficulty) bool {
	return d >= DifficultyNovice && d <= DifficultyMythic
}

// NormalizeSlug canonicalizes a slug for indexing.
func NormalizeSlug(slug string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return "", ErrSlugEmpty
	}
	return normalized, nil
}

// CreateLocation validates input and builds a new location record.
// The caller assigns the sequential ID when persisting.
func CreateLocation(input CreateLocationInput, now func() time.Time) (Location, error) {
	if now == nil {
		now = time.Now
	}

	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return Location{}, err
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return Location{}, ErrNameEmpty
	}
	if !IsValidBiome(input.Biome) {
		return Location{}, ErrInvalidBiome
	}
	if !IsValidDifficulty(input.Difficulty) {
		return Location{}, ErrInvalidDifficulty
	}

	createdAt := now().UTC()
	return Location{
		Slug:        slug,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: input.Description,
		Biome:       input.Biome,
		Difficulty:  input.Difficulty,
		ParentID:    input.ParentID,
		Active:      true,
		SceneURI:    input.SceneURI,
		Controller:  input.Controller,
		MetadataURI: input.MetadataURI,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// ApplyUpdate applies a partial metadata update to a location.
// It reports whether any field changed so callers can skip no-op writes.
func ApplyUpdate(loc Location, input UpdateLocationInput, now func() time.Time) (Location, bool, error) {
	if now == nil {
		now = time.Now
	}

	updated := loc
	changed := false

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return Location{}, false, ErrNameEmpty
		}
		if name != updated.DisplayName {
			updated.DisplayName = name
			changed = true
		}
	}
	if input.Description != nil && *input.Description != updated.Description {
		updated.Description = *input.Description
		changed = true
	}
	if input.Biome != nil {
		if !IsValidBiome(*input.Biome) {
			return Location{}, false, ErrInvalidBiome
		}
		if *input.Biome != updated.Biome {
			updated.Biome = *input.Biome
			changed = true
		}
	}
	if input.Difficulty != nil {
		if !IsValidDifficulty(*input.Difficulty) {
			return Location{}, false, ErrInvalidDifficulty
		}
		if *input.Difficulty != updated.Difficulty {
			updated.Difficulty = *input.Difficulty
			changed = true
		}
	}
	if input.ParentID != nil && *input.ParentID != updated.ParentID {
		updated.ParentID = *input.ParentID
		changed = true
	}
	if input.SceneURI != nil && *input.SceneURI != updated.SceneURI {
		updated.SceneURI = *input.SceneURI
		changed = true
	}
	if input.MetadataURI != nil && *input.MetadataURI != updated.MetadataURI {
		updated.MetadataURI = *input.MetadataURI
		changed = true
	}

	if changed {
		updated.UpdatedAt = now().UTC()
	}
	return updated, changed, nil
}
