package milestones

import (
	"context"
	"testing"

	"github.com/yungbote/milestones-backend/internal/data/repos/testutil"
)

func TestRelationshipTypeRepoGetByName(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewRelationshipTypeRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	for _, name := range []string{"requires", "fulfills"} {
		row, err := repo.GetByName(ctx, tx, name)
		if err != nil {
			t.Fatalf("GetByName(%q): %v", name, err)
		}
		if row == nil || row.Name != name {
			t.Fatalf("expected seeded row for %q, got %+v", name, row)
		}
	}

	row, err := repo.GetByName(ctx, tx, "encourages")
	if err != nil || row != nil {
		t.Fatalf("expected nil,nil for unknown name, got %v, %v", row, err)
	}
}
