package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Memory() MemoryRepository
	Summary() SummaryRepository
	Personality() PersonalityRepository
	Profile() ProfileRepository

	// Close releases backend resources
	Close() error
}
