package actor

// DeathBehavior decides what happens when an actor dies.
// It is closed: the only implementations are EnemyDeath and AllyDeath.
type DeathBehavior interface {
	death()
}

// EnemyDeath awards experience to the killer and drops loot.
type EnemyDeath struct {
	XPReward  uint32   `json:"xp_reward"`
	LootTable []string `json:"loot_table,omitempty"`
}

// AllyDeath only takes the actor out of the fight.
type AllyDeath struct{}

func (EnemyDeath) death() {}
func (AllyDeath) death()  {}

// DefaultDeath returns the death behavior for a side.
func DefaultDeath(side Side) DeathBehavior {
	if side == SideEnemy {
		return EnemyDeath{}
	}
	return AllyDeath{}
}
