package simcore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateBasePopulatesHash(t *testing.T) {
	pkg := GenerateBase()
	if pkg.Meta.Hash == "" {
		t.Error("expected GenerateBase to populate a non-empty hash")
	}
	if len(pkg.Fighters) != 1 || len(pkg.Stages) != 1 {
		t.Errorf("expected one base fighter and stage, got %d/%d", len(pkg.Fighters), len(pkg.Stages))
	}
}

func TestComputeHashStableAcrossRoundTrip(t *testing.T) {
	pkg := GenerateBase()
	before := pkg.computeHash()

	dir := t.TempDir()
	pkg.Path = dir
	if err := pkg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	after := loaded.computeHash()

	if before != after {
		t.Errorf("expected hash to survive a save/load round trip, got %s vs %s", before, after)
	}
}

func TestOpenMissingFighterFails(t *testing.T) {
	pkg := GenerateBase()
	dir := t.TempDir()
	pkg.Path = dir
	if err := pkg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "Fighters", "base.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := Open(dir); err == nil {
		t.Error("expected opening a package with a missing fighter file to fail")
	}
}

func TestPackageUpdatesDrainsQueue(t *testing.T) {
	pkg := GenerateBase()
	pkg.pushUpdate(PackageUpdate{Kind: UpdateInsertStage})
	pkg.pushUpdate(PackageUpdate{Kind: UpdateDeleteStage})

	updates := pkg.Updates()
	if len(updates) != 2 {
		t.Fatalf("expected 2 queued updates, got %d", len(updates))
	}
	if more := pkg.Updates(); len(more) != 0 {
		t.Errorf("expected the update queue to be empty after draining, got %d", len(more))
	}
}
