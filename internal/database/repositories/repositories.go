package repositories

import "gorm.io/gorm"

// Repositories bundles the election persistence boundary. Every repository
// in one bundle shares the same gorm handle, so a bundle created inside
// Transaction reads and writes within that transaction.
type Repositories struct {
	db *gorm.DB

	Elections  ElectionRepository
	Positions  PositionRepository
	Candidates CandidateRepository
	Markers    BoundaryMarkerRepository
}

var GlobalRepositories *Repositories

func InitializeGlobalRepositories(db *gorm.DB) error {
	if GlobalRepositories != nil {
		return nil
	}

	GlobalRepositories = NewRepositories(db)
	return nil
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Elections:  NewElectionRepositoryImpl(db),
		Positions:  NewPositionRepositoryImpl(db),
		Candidates: NewCandidateRepositoryImpl(db),
		Markers:    NewBoundaryMarkerRepositoryImpl(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// Returning an error from fn rolls every write back.
func (repos *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return repos.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
