package gamedata

// EnemyDef defines an enemy template loaded from JSON.
type EnemyDef struct {
	ID          string   `json:"id"`          // Unique identifier (e.g., "raider")
	Name        string   `json:"name"`        // Display name
	Class       string   `json:"class"`       // Class tag
	XPReward    uint32   `json:"xpReward"`    // Experience the killer's award is computed from
	Loot        []string `json:"loot"`        // Loot table entries dropped on death
	SpawnWeight int      `json:"spawnWeight"` // Relative spawn frequency (higher = more common)
	StatBlock
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}
