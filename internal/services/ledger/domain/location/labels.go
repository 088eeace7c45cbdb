package location

// BiomeLabel returns a stable label for a biome.
func BiomeLabel(b Biome) string {
	switch b {
	case BiomeForest:
		return "FOREST"
	case BiomeDesert:
		return "DESERT"
	case BiomeTundra:
		return "TUNDRA"
	case BiomeSwamp:
		return "SWAMP"
	case BiomeMountain:
		return "MOUNTAIN"
	case BiomeCoast:
		return "COAST"
	case BiomePlains:
		return "PLAINS"
	case BiomeVolcanic:
		return "VOLCANIC"
	case BiomeAstral:
		return "ASTRAL"
	case BiomeRuins:
		return "RUINS"
	default:
		return "UNKNOWN"
	}
}

// ParseBiome maps a label back to its biome. Unknown labels fail.
func ParseBiome(label string) (Biome, error) {
	switch label {
	case "UNKNOWN", "":
		return BiomeUnknown, nil
	case "FOREST":
		return BiomeForest, nil
	case "DESERT":
		return BiomeDesert, nil
	case "TUNDRA":
		return BiomeTundra, nil
	case "SWAMP":
		return BiomeSwamp, nil
	case "MOUNTAIN":
		return BiomeMountain, nil
	case "COAST":
		return BiomeCoast, nil
	case "PLAINS":
		return BiomePlains, nil
	case "VOLCANIC":
		return BiomeVolcanic, nil
	case "ASTRAL":
		return BiomeAstral, nil
	case "RUINS":
		return BiomeRuins, nil
	default:
		return BiomeUnknown, ErrInvalidBiome
	}
}

// DifficultyLabel returns a stable label for a difficulty tier.
func DifficultyLabel(d Difficulty) string {
	switch d {
	case DifficultyNovice:
		return "NOVICE"
	case DifficultyAdept:
		return "ADEPT"
	case DifficultyVeteran:
		return "VETERAN"
	case DifficultyElite:
		return "ELITE"
	case DifficultyMythic:
		return "MYTHIC"
	default:
		return "UNSPECIFIED"
	}
}

// ParseDifficulty maps a label back to its difficulty tier. Unknown labels fail.
func ParseDifficulty(label string) (Difficulty, error) {
	switch label {
	case "UNSPECIFIED", "":
		return DifficultyUnspecified, nil
	case "NOVICE":
		return DifficultyNovice, nil
	case "ADEPT":
		return DifficultyAdept, nil
	case "VETERAN":
		return DifficultyVeteran, nil
	case "ELITE":
		return DifficultyElite, nil
	case "MYTHIC":
		return DifficultyMythic, nil
	default:
		return DifficultyUnspecified, ErrInvalidDifficulty
	}
}
