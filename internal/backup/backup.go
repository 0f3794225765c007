package backup

import (
	"alcyxob/workout-roulette/internal/domain"
	"alcyxob/workout-roulette/internal/repository"
	"alcyxob/workout-roulette/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidSnapshot = errors.New("invalid backup snapshot")
	ErrStoreNotEmpty   = errors.New("cannot import backup into a non-empty store")
)

const snapshotVersion = 1

// Snapshot is the JSON backup document: every aggregate, dumped whole.
type Snapshot struct {
	Version     int                         `json:"version"`
	CreatedAt   time.Time                   `json:"createdAt"`
	Sessions    []domain.Session            `json:"sessions"`
	Actions     []domain.Action             `json:"actions"`
	Workouts    []domain.Workout            `json:"workouts"`
	Pools       []domain.WorkoutPool        `json:"pools"`
	Memberships []domain.WorkoutPoolWorkout `json:"memberships"`
	Completions []domain.ActionCompletion   `json:"completions"`
	Received    []domain.WorkoutReceived    `json:"received"`
}

// Service exports and imports full-store JSON snapshots via object storage.
type Service interface {
	// Export dumps the whole store to a JSON object and returns its key.
	Export(ctx context.Context) (string, error)
	// Import restores a snapshot into an empty store. Referential integrity
	// is validated before anything is written.
	Import(ctx context.Context, objectKey string) error
	// DownloadURL returns a temporary URL for fetching an exported snapshot.
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type backupService struct {
	sessionRepo    repository.SessionRepository
	actionRepo     repository.ActionRepository
	workoutRepo    repository.WorkoutRepository
	poolRepo       repository.WorkoutPoolRepository
	membershipRepo repository.PoolMembershipRepository
	completionRepo repository.ActionCompletionRepository
	receivedRepo   repository.WorkoutReceivedRepository
	objectStorage  storage.ObjectStorage
}

// NewBackupService creates a new backup service.
func NewBackupService(
	sessionRepo repository.SessionRepository,
	actionRepo repository.ActionRepository,
	workoutRepo repository.WorkoutRepository,
	poolRepo repository.WorkoutPoolRepository,
	membershipRepo repository.PoolMembershipRepository,
	completionRepo repository.ActionCompletionRepository,
	receivedRepo repository.WorkoutReceivedRepository,
	objectStorage storage.ObjectStorage,
) Service {
	return &backupService{
		sessionRepo:    sessionRepo,
		actionRepo:     actionRepo,
		workoutRepo:    workoutRepo,
		poolRepo:       poolRepo,
		membershipRepo: membershipRepo,
		completionRepo: completionRepo,
		receivedRepo:   receivedRepo,
		objectStorage:  objectStorage,
	}
}

// Export builds a snapshot of every aggregate and uploads it as JSON.
func (s *backupService) Export(ctx context.Context) (string, error) {
	snapshot, err := s.buildSnapshot(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("backups/%s-%s.json",
		snapshot.CreatedAt.Format("20060102T150405Z"), uuid.NewString())

	if err := s.objectStorage.PutObject(ctx, objectKey, "application/json", bytes.NewReader(data)); err != nil {
		return "", err
	}
	log.Printf("Exported backup snapshot to %s (%d bytes)", objectKey, len(data))
	return objectKey, nil
}

func (s *backupService) buildSnapshot(ctx context.Context) (*Snapshot, error) {
	sessions, err := s.sessionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	actions, err := s.actionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	pools, err := s.poolRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.membershipRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	received, err := s.receivedRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:     snapshotVersion,
		CreatedAt:   time.Now().UTC(),
		Sessions:    sessions,
		Actions:     actions,
		Workouts:    workouts,
		Pools:       pools,
		Memberships: memberships,
		Completions: completions,
		Received:    received,
	}, nil
}

// Import fetches a snapshot, validates it, and writes it into the store.
// The store must be empty (fresh install / recovery), so IDs are preserved
// as-is and the single-active-session index cannot collide with old data.
func (s *backupService) Import(ctx context.Context, objectKey string) error {
	body, err := s.objectStorage.GetObject(ctx, objectKey)
	if err != nil {
		return err
	}
	defer body.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(body).Decode(&snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if err := ValidateSnapshot(&snapshot); err != nil {
		return err
	}

	count, err := s.workoutRepo.Count(ctx)
	if err != nil {
		return err
	}
	existing, err := s.sessionRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 || len(existing) > 0 {
		return ErrStoreNotEmpty
	}

	return s.restore(ctx, &snapshot)
}

func (s *backupService) restore(ctx context.Context, snapshot *Snapshot) error {
	// Referenced aggregates first, then the edges and logs pointing at them.
	for i := range snapshot.Workouts {
		if _, err := s.workoutRepo.Create(ctx, &snapshot.Workouts[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Actions {
		if _, err := s.actionRepo.Create(ctx, &snapshot.Actions[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Pools {
		if _, err := s.poolRepo.Create(ctx, &snapshot.Pools[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Memberships {
		if _, err := s.membershipRepo.Create(ctx, &snapshot.Memberships[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Sessions {
		if _, err := s.sessionRepo.Create(ctx, &snapshot.Sessions[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Completions {
		if _, err := s.completionRepo.Create(ctx, &snapshot.Completions[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Received {
		if _, err := s.receivedRepo.Create(ctx, &snapshot.Received[i]); err != nil {
			return err
		}
	}
	log.Printf("Imported backup snapshot: %d sessions, %d workouts, %d pools",
		len(snapshot.Sessions), len(snapshot.Workouts), len(snapshot.Pools))
	return nil
}

// DownloadURL returns a presigned URL for a snapshot object.
func (s *backupService) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	return s.objectStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}

// ValidateSnapshot checks the snapshot's referential integrity: every
// foreign ID must point at an entity inside the same snapshot.
func ValidateSnapshot(snapshot *Snapshot) error {
	if snapshot.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snapshot.Version)
	}

	workoutIDs := make(map[primitive.ObjectID]bool, len(snapshot.Workouts))
	for _, w := range snapshot.Workouts {
		workoutIDs[w.ID] = true
	}
	actionIDs := make(map[primitive.ObjectID]bool, len(snapshot.Actions))
	for _, a := range snapshot.Actions {
		actionIDs[a.ID] = true
	}
	poolIDs := make(map[primitive.ObjectID]bool, len(snapshot.Pools))
	for _, p := range snapshot.Pools {
		poolIDs[p.ID] = true
	}
	sessionIDs := make(map[primitive.ObjectID]bool, len(snapshot.Sessions))
	for _, sess := range snapshot.Sessions {
		sessionIDs[sess.ID] = true
	}

	for _, sess := range snapshot.Sessions {
		if !poolIDs[sess.PoolID] {
			return fmt.Errorf("%w: session %s references unknown pool %s",
				ErrInvalidSnapshot, sess.ID.Hex(), sess.PoolID.Hex())
		}
	}
	for _, m := range snapshot.Memberships {
		if !poolIDs[m.PoolID] {
			return fmt.Errorf("%w: membership %s references unknown pool %s",
				ErrInvalidSnapshot, m.ID.Hex(), m.PoolID.Hex())
		}
		if !workoutIDs[m.WorkoutID] {
			return fmt.Errorf("%w: membership %s references unknown workout %s",
				ErrInvalidSnapshot, m.ID.Hex(), m.WorkoutID.Hex())
		}
	}
	for _, c := range snapshot.Completions {
		if !sessionIDs[c.SessionID] {
			return fmt.Errorf("%w: completion %s references unknown session %s",
				ErrInvalidSnapshot, c.ID.Hex(), c.SessionID.Hex())
		}
		if !actionIDs[c.ActionID] {
			return fmt.Errorf("%w: completion %s references unknown action %s",
				ErrInvalidSnapshot, c.ID.Hex(), c.ActionID.Hex())
		}
	}
	for _, r := range snapshot.Received {
		if !sessionIDs[r.SessionID] {
			return fmt.Errorf("%w: receipt %s references unknown session %s",
				ErrInvalidSnapshot, r.ID.Hex(), r.SessionID.Hex())
		}
		if !workoutIDs[r.WorkoutID] {
			return fmt.Errorf("%w: receipt %s references unknown workout %s",
				ErrInvalidSnapshot, r.ID.Hex(), r.WorkoutID.Hex())
		}
	}
	return nil
}
