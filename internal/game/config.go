package game

// Config holds battle options.
type Config struct {
	// Seed for random number generation. Battles with the same seed and
	// roster play out identically. A seed of 0 means a random seed will be generated.
	Seed int64

	// MaxTicks ends the battle in a stalemate once this many turns have
	// been taken. Zero means no limit.
	MaxTicks uint32
}
