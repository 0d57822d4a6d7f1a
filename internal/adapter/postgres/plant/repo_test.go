package plant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/plant"
	"github.com/verdantlabs/seedtrace-backend/internal/adapter/postgres/testhelper"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*plant.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return plant.New(pool), pool
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)

	got, err := repo.Create(ctx, domain.Plant{
		LocationID: loc.ID,
		Strain:     "Blue Dream",
		RoomID:     room.ID,
		Phase:      domain.PhaseSeedling,
		Notes:      "from seed",
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID == uuid.Nil {
		t.Error("ID should be generated")
	}
	if got.Status != domain.PlantActive {
		t.Errorf("Status: got %s, want %s", got.Status, domain.PlantActive)
	}
	if got.IsMother {
		t.Error("IsMother should be false")
	}
	if got.CloneCount != 0 || got.SeedCount != 0 {
		t.Errorf("offspring counters should start at zero, got clones=%d seeds=%d", got.CloneCount, got.SeedCount)
	}
	if got.DeletedAt != nil {
		t.Error("DeletedAt should be nil")
	}
}

func TestRepo_Create_InvalidRoom(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)

	_, err := repo.Create(ctx, domain.Plant{
		LocationID: loc.ID,
		Strain:     "Blue Dream",
		RoomID:     uuid.New(),
		Phase:      domain.PhaseSeedling,
	})
	assertIsDomainError(t, err, domain.ErrNotFound) // FK violation -> ErrNotFound
}

func TestRepo_Update_PartialPatch(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	phase := domain.PhaseFlowering
	notes := "moved to flower"
	got, err := repo.Update(ctx, loc.ID, p.ID, domain.PlantPatch{
		Phase: &phase,
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got.Phase != domain.PhaseFlowering {
		t.Errorf("Phase: got %s, want %s", got.Phase, domain.PhaseFlowering)
	}
	if got.Notes != notes {
		t.Errorf("Notes: got %q, want %q", got.Notes, notes)
	}
	// Untouched fields survive.
	if got.Strain != p.Strain {
		t.Errorf("Strain changed: got %q, want %q", got.Strain, p.Strain)
	}
	if got.RoomID != p.RoomID {
		t.Errorf("RoomID changed: got %s, want %s", got.RoomID, p.RoomID)
	}
}

func TestRepo_Update_NotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)

	notes := "x"
	_, err := repo.Update(ctx, loc.ID, uuid.New(), domain.PlantPatch{Notes: &notes})
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_SoftDelete_SecondCallNotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	at := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.SoftDelete(ctx, loc.ID, p.ID, at); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// Deleted plant is invisible to reads.
	_, err := repo.GetByID(ctx, loc.ID, p.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)

	// Repeating the deletion reports not-found, not silent success.
	err = repo.SoftDelete(ctx, loc.ID, p.ID, at)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_SetMother_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	got, err := repo.SetMother(ctx, loc.ID, p.ID)
	if err != nil {
		t.Fatalf("SetMother: %v", err)
	}

	if !got.IsMother {
		t.Error("IsMother should be true")
	}
	if got.Status != domain.PlantMother {
		t.Errorf("Status: got %s, want %s", got.Status, domain.PlantMother)
	}
}

func TestRepo_SetMother_AlreadyMother(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	if _, err := repo.SetMother(ctx, loc.ID, p.ID); err != nil {
		t.Fatalf("SetMother first: %v", err)
	}

	// Status is MOTHER now, so the status guard rejects the second call.
	_, err := repo.SetMother(ctx, loc.ID, p.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_IncrementOffspring(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	mother, err := repo.SetMother(ctx, loc.ID, p.ID)
	if err != nil {
		t.Fatalf("SetMother: %v", err)
	}

	if err := repo.IncrementOffspring(ctx, loc.ID, mother.ID, 10, 0); err != nil {
		t.Fatalf("IncrementOffspring clones: %v", err)
	}
	if err := repo.IncrementOffspring(ctx, loc.ID, mother.ID, 0, 25); err != nil {
		t.Fatalf("IncrementOffspring seeds: %v", err)
	}

	got, err := repo.GetByID(ctx, loc.ID, mother.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CloneCount != 10 {
		t.Errorf("CloneCount: got %d, want 10", got.CloneCount)
	}
	if got.SeedCount != 25 {
		t.Errorf("SeedCount: got %d, want 25", got.SeedCount)
	}
}

func TestRepo_IncrementOffspring_NotMother(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	err := repo.IncrementOffspring(ctx, loc.ID, p.ID, 5, 0)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_UpdateRoom(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room1 := testhelper.SeedRoom(t, pool, loc.ID)
	room2 := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room1.ID)

	if err := repo.UpdateRoom(ctx, loc.ID, p.ID, room2.ID); err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}

	got, err := repo.GetByID(ctx, loc.ID, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.RoomID != room2.ID {
		t.Errorf("RoomID: got %s, want %s", got.RoomID, room2.ID)
	}
}

func TestRepo_MarkDestroyed(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	if err := repo.MarkDestroyed(ctx, loc.ID, p.ID); err != nil {
		t.Fatalf("MarkDestroyed: %v", err)
	}

	got, err := repo.GetByID(ctx, loc.ID, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.PlantDestroyed {
		t.Errorf("Status: got %s, want %s", got.Status, domain.PlantDestroyed)
	}

	// Destroying an already destroyed plant reports not-found.
	err = repo.MarkDestroyed(ctx, loc.ID, p.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByID_WrongLocation(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	loc := testhelper.SeedLocation(t, pool)
	otherLoc := testhelper.SeedLocation(t, pool)
	room := testhelper.SeedRoom(t, pool, loc.ID)
	p := testhelper.SeedPlant(t, pool, loc.ID, room.ID)

	_, err := repo.GetByID(ctx, otherLoc.ID, p.ID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}
