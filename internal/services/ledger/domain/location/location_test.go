package location

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		want    string
		wantErr error
	}{
		{name: "lowercases", slug: "Mistral-Peak", want: "mistral-peak"},
		{name: "trims", slug: "  azure-coast  ", want: "azure-coast"},
		{name: "empty", slug: "   ", wantErr: ErrSlugEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSlug(tt.slug)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize slug: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCreateLocationValidation(t *testing.T) {
	valid := CreateLocationInput{
		Slug:        "Ember-Hollow",
		DisplayName: "Ember Hollow",
		Biome:       BiomeVolcanic,
		Difficulty:  DifficultyVeteran,
	}

	tests := []struct {
		name    string
		mutate  func(*CreateLocationInput)
		wantErr error
	}{
		{name: "missing slug", mutate: func(in *CreateLocationInput) { in.Slug = " " }, wantErr: ErrSlugEmpty},
		{name: "missing name", mutate: func(in *CreateLocationInput) { in.DisplayName = "" }, wantErr: ErrNameEmpty},
		{name: "bad biome", mutate: func(in *CreateLocationInput) { in.Biome = Biome(99) }, wantErr: ErrInvalidBiome},
		{name: "bad difficulty", mutate: func(in *CreateLocationInput) { in.Difficulty = Difficulty(99) }, wantErr: ErrInvalidDifficulty},
		{name: "unspecified difficulty", mutate: func(in *CreateLocationInput) { in.Difficulty = DifficultyUnspecified }, wantErr: ErrInvalidDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			if _, err := CreateLocation(input, fixedClock); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateLocationDefaults(t *testing.T) {
	loc, err := CreateLocation(CreateLocationInput{
		Slug:        "Ember-Hollow",
		DisplayName: "  Ember Hollow  ",
		Biome:       BiomeVolcanic,
		Difficulty:  DifficultyVeteran,
	}, fixedClock)
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if loc.Slug != "ember-hollow" {
		t.Fatalf("expected normalized slug, got %q", loc.Slug)
	}
	if loc.DisplayName != "Ember Hollow" {
		t.Fatalf("expected trimmed name, got %q", loc.DisplayName)
	}
	if !loc.Active {
		t.Fatal("expected new location to be active")
	}
	if loc.ParentID != 0 {
		t.Fatalf("expected root parent, got %d", loc.ParentID)
	}
	if !loc.CreatedAt.Equal(fixedClock()) || !loc.UpdatedAt.Equal(fixedClock()) {
		t.Fatal("expected clock-derived timestamps")
	}
}

func TestApplyUpdatePartialSemantics(t *testing.T) {
	base, err := CreateLocation(CreateLocationInput{
		Slug:        "ember-hollow",
		DisplayName: "Ember Hollow",
		Description: "a smoldering cavern",
		Biome:       BiomeVolcanic,
		Difficulty:  DifficultyVeteran,
	}, fixedClock)
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	t.Run("nil fields change nothing", func(t *testing.T) {
		_, changed, err := ApplyUpdate(base, UpdateLocationInput{}, fixedClock)
		if err != nil {
			t.Fatalf("apply update: %v", err)
		}
		if changed {
			t.Fatal("expected no change for empty input")
		}
	})

	t.Run("set pointer clears to zero value", func(t *testing.T) {
		empty := ""
		updated, changed, err := ApplyUpdate(base, UpdateLocationInput{Description: &empty}, fixedClock)
		if err != nil {
			t.Fatalf("apply update: %v", err)
		}
		if !changed {
			t.Fatal("expected change")
		}
		if updated.Description != "" {
			t.Fatalf("expected cleared description, got %q", updated.Description)
		}
	})

	t.Run("same value is a no-op", func(t *testing.T) {
		name := base.DisplayName
		_, changed, err := ApplyUpdate(base, UpdateLocationInput{DisplayName: &name}, fixedClock)
		if err != nil {
			t.Fatalf("apply update: %v", err)
		}
		if changed {
			t.Fatal("expected no change for identical value")
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		empty := "  "
		if _, _, err := ApplyUpdate(base, UpdateLocationInput{DisplayName: &empty}, fixedClock); !errors.Is(err, ErrNameEmpty) {
			t.Fatalf("expected %v, got %v", ErrNameEmpty, err)
		}
	})

	t.Run("biome update validated", func(t *testing.T) {
		bad := Biome(42)
		if _, _, err := ApplyUpdate(base, UpdateLocationInput{Biome: &bad}, fixedClock); !errors.Is(err, ErrInvalidBiome) {
			t.Fatalf("expected %v, got %v", ErrInvalidBiome, err)
		}
	})
}

func TestBiomeLabelRoundTrip(t *testing.T) {
	for b := BiomeUnknown; b <= BiomeRuins; b++ {
		parsed, err := ParseBiome(BiomeLabel(b))
		if err != nil {
			t.Fatalf("parse biome %d: %v", b, err)
		}
		if parsed != b {
			t.Fatalf("expected biome %d, got %d", b, parsed)
		}
	}
	if _, err := ParseBiome("LIMBO"); !errors.Is(err, ErrInvalidBiome) {
		t.Fatalf("expected %v for unknown label, got %v", ErrInvalidBiome, err)
	}
}

func TestDifficultyLabelRoundTrip(t *testing.T) {
	for d := DifficultyUnspecified; d <= DifficultyMythic; d++ {
		parsed, err := ParseDifficulty(DifficultyLabel(d))
		if err != nil {
			t.Fatalf("parse difficulty %d: %v", d, err)
		}
		if parsed != d {
			t.Fatalf("expected difficulty %d, got %d", d, parsed)
		}
	}
	if _, err := ParseDifficulty("IMPOSSIBLE"); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected %v for unknown label, got %v", ErrInvalidDifficulty, err)
	}
}

func TestControllerZeroValueMeansUnclaimed(t *testing.T) {
	loc, err := CreateLocation(CreateLocationInput{
		Slug:        "azure-coast",
		DisplayName: "Azure Coast",
		Biome:       BiomeCoast,
		Difficulty:  DifficultyNovice,
	}, fixedClock)
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if loc.Controller != (common.Address{}) {
		t.Fatalf("expected unclaimed controller, got %s", loc.Controller.Hex())
	}
}
