package cachepurge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDir_RemovesDomainDirectory(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "shop.example.com")
	if err := os.MkdirAll(filepath.Join(target, "landing"), 0o755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(root, "other.example.com")
	if err := os.MkdirAll(keep, 0o755); err != nil {
		t.Fatal(err)
	}

	inv := Dir{Root: root}
	if err := inv.RemoveByKey(context.Background(), "shop.example.com"); err != nil {
		t.Fatalf("RemoveByKey error: %v", err)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("domain cache dir still present")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatal("sibling domain dir was removed")
	}
}

func TestDir_FlattensDirectoryModeDomains(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "example.com-shop")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	inv := Dir{Root: root}
	if err := inv.RemoveByKey(context.Background(), "example.com/shop"); err != nil {
		t.Fatalf("RemoveByKey error: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("flattened cache dir still present")
	}
}

func TestDir_EmptyInputsAreNoops(t *testing.T) {
	inv := Dir{Root: ""}
	if err := inv.RemoveByKey(context.Background(), "example.com"); err != nil {
		t.Fatalf("empty root: %v", err)
	}
	inv = Dir{Root: t.TempDir()}
	if err := inv.RemoveByKey(context.Background(), ""); err != nil {
		t.Fatalf("empty domain: %v", err)
	}
}

// countingInv records calls and optionally fails a specific domain.
type countingInv struct {
	mu   sync.Mutex
	seen []string
	fail string
}

func (c *countingInv) RemoveByKey(_ context.Context, domain string) error {
	c.mu.Lock()
	c.seen = append(c.seen, domain)
	c.mu.Unlock()
	if domain == c.fail {
		return errors.New("purge failed")
	}
	return nil
}

func TestPurgeAll_AttemptsEveryDomain(t *testing.T) {
	inv := &countingInv{fail: "b.example.com"}
	domains := []string{"a.example.com", "b.example.com", "c.example.com"}

	err := PurgeAll(context.Background(), inv, domains)
	if err == nil {
		t.Fatal("expected the failing domain's error to surface")
	}
	if len(inv.seen) != len(domains) {
		t.Fatalf("attempted %d domains, want %d", len(inv.seen), len(domains))
	}
}

func TestPurge_DowngradesFailure(t *testing.T) {
	// Must not panic or propagate; the failure only logs and counts.
	Purge(context.Background(), &countingInv{fail: "x"}, "x")
	Purge(context.Background(), nil, "x")
}
