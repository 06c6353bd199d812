package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
)

const testUser = "7c9a1f8e-0000-4000-8000-000000000001"

func linkUserTags(t *testing.T, repo TagLinkRepository, userID string, tagIDs []uint) []models.UserTag {
	t.Helper()

	ctx := context.Background()
	out := make([]models.UserTag, 0, len(tagIDs))
	for i, tagID := range tagIDs {
		link := models.UserTag{UserID: userID, TagID: tagID, Position: i}
		if err := repo.CreateUserTag(ctx, &link); err != nil {
			t.Fatalf("CreateUserTag error: %v", err)
		}
		out = append(out, link)
	}
	return out
}

func assertPositions(t *testing.T, links []models.UserTag, wantTagOrder []uint) {
	t.Helper()

	if len(links) != len(wantTagOrder) {
		t.Fatalf("expected %d links, got %d", len(wantTagOrder), len(links))
	}
	for i, link := range links {
		if link.Position != i {
			t.Fatalf("position %d expected at index %d, got %d (dense ordering violated)", i, i, link.Position)
		}
		if link.TagID != wantTagOrder[i] {
			t.Fatalf("expected tag %d at position %d, got %d", wantTagOrder[i], i, link.TagID)
		}
	}
}

func TestCreateUserTagShiftsOccupiedPosition(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 4)
	linkUserTags(t, repo, testUser, tags[:3]) // A=0 B=1 C=2

	// insert D at the head; everything shifts up
	link := models.UserTag{UserID: testUser, TagID: tags[3], Position: 0}
	if err := repo.CreateUserTag(ctx, &link); err != nil {
		t.Fatalf("CreateUserTag error: %v", err)
	}

	links, err := repo.ListUserTags(ctx, testUser)
	if err != nil {
		t.Fatalf("ListUserTags error: %v", err)
	}
	assertPositions(t, links, []uint{tags[3], tags[0], tags[1], tags[2]})
}

func TestCreateUserTagAppendWithoutShift(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 2)
	linkUserTags(t, repo, testUser, tags[:1])

	link := models.UserTag{UserID: testUser, TagID: tags[1], Position: 1}
	if err := repo.CreateUserTag(ctx, &link); err != nil {
		t.Fatalf("CreateUserTag error: %v", err)
	}

	links, _ := repo.ListUserTags(ctx, testUser)
	assertPositions(t, links, []uint{tags[0], tags[1]})
}

func TestCreateUserTagDuplicateConflict(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 1)
	linkUserTags(t, repo, testUser, tags)

	dup := models.UserTag{UserID: testUser, TagID: tags[0], Position: 5}
	err := repo.CreateUserTag(ctx, &dup)
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// the failed insert must not have shifted anything
	links, _ := repo.ListUserTags(ctx, testUser)
	assertPositions(t, links, tags)
}

func TestMoveUserTagForward(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 4)
	links := linkUserTags(t, repo, testUser, tags) // A B C D

	// move A to position 2: B and C slide down
	moved, err := repo.MoveUserTag(ctx, testUser, links[0].ID, 2)
	if err != nil {
		t.Fatalf("MoveUserTag error: %v", err)
	}
	if moved.Position != 2 {
		t.Fatalf("expected position 2, got %d", moved.Position)
	}

	got, _ := repo.ListUserTags(ctx, testUser)
	assertPositions(t, got, []uint{tags[1], tags[2], tags[0], tags[3]})
}

func TestMoveUserTagBackward(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 4)
	links := linkUserTags(t, repo, testUser, tags) // A B C D

	// move D to position 1: B and C slide up
	if _, err := repo.MoveUserTag(ctx, testUser, links[3].ID, 1); err != nil {
		t.Fatalf("MoveUserTag error: %v", err)
	}

	got, _ := repo.ListUserTags(ctx, testUser)
	assertPositions(t, got, []uint{tags[0], tags[3], tags[1], tags[2]})
}

func TestMoveUserTagSamePositionIsNoop(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 3)
	links := linkUserTags(t, repo, testUser, tags)

	if _, err := repo.MoveUserTag(ctx, testUser, links[1].ID, 1); err != nil {
		t.Fatalf("MoveUserTag error: %v", err)
	}

	got, _ := repo.ListUserTags(ctx, testUser)
	assertPositions(t, got, tags)
}

func TestMoveUserTagScopedToOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 1)
	links := linkUserTags(t, repo, testUser, tags)

	other := "7c9a1f8e-0000-4000-8000-000000000002"
	if _, err := repo.MoveUserTag(ctx, other, links[0].ID, 0); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign link, got %v", err)
	}
	if err := repo.DeleteUserTag(ctx, other, links[0].ID); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign link, got %v", err)
	}
}

func TestDeleteUserTagLeavesGap(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 3)
	links := linkUserTags(t, repo, testUser, tags)

	if err := repo.DeleteUserTag(ctx, testUser, links[1].ID); err != nil {
		t.Fatalf("DeleteUserTag error: %v", err)
	}

	// no auto-compaction: positions 0 and 2 survive untouched
	got, err := repo.ListUserTags(ctx, testUser)
	if err != nil {
		t.Fatalf("ListUserTags error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d", len(got))
	}
	if got[0].Position != 0 || got[1].Position != 2 {
		t.Fatalf("expected positions [0 2], got [%d %d]", got[0].Position, got[1].Position)
	}
}

func TestVacancyTagCreateAndMove(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewTagLinkRepo(db)
	ctx := context.Background()

	tags := seedTags(t, db, 3)
	tmpl := seedTemplate(t, db)
	vacancy := seedVacancy(t, db, tmpl.ID, testUser)

	for i, tagID := range tags {
		link := models.VacancyTag{VacancyID: vacancy.ID, TagID: tagID, Position: i}
		if err := repo.CreateVacancyTag(ctx, &link); err != nil {
			t.Fatalf("CreateVacancyTag error: %v", err)
		}
	}

	dup := models.VacancyTag{VacancyID: vacancy.ID, TagID: tags[0], Position: 0}
	if err := repo.CreateVacancyTag(ctx, &dup); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	links, _ := repo.ListVacancyTags(ctx, vacancy.ID)
	if _, err := repo.MoveVacancyTag(ctx, vacancy.ID, links[2].ID, 0); err != nil {
		t.Fatalf("MoveVacancyTag error: %v", err)
	}

	got, _ := repo.ListVacancyTags(ctx, vacancy.ID)
	wantOrder := []uint{tags[2], tags[0], tags[1]}
	for i, link := range got {
		if link.Position != i || link.TagID != wantOrder[i] {
			t.Fatalf("expected tag %d at position %d, got tag %d at %d", wantOrder[i], i, link.TagID, link.Position)
		}
	}
}
