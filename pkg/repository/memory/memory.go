package memory

import (
	"github.com/voiceops-lab/mnemosyne/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-memory repository backend, used for tests and local
// development. All reads return deep copies.
type Memory struct {
	memories    *memoryEntryRepository
	summaries   *summaryRepository
	personality *personalityRepository
	profiles    *profileRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		memories:    newMemoryEntryRepository(),
		summaries:   newSummaryRepository(),
		personality: newPersonalityRepository(),
		profiles:    newProfileRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memories
}

func (m *Memory) Summary() interfaces.SummaryRepository {
	return m.summaries
}

func (m *Memory) Personality() interfaces.PersonalityRepository {
	return m.personality
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profiles
}

func (m *Memory) Close() error {
	return nil
}
