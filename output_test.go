package snpstat

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOutputIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.tsv")

	out, err := CreateOutput(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := io.WriteString(out, "#SNP\tMAF\n"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Output should not exist before Close, stat returned %v", err)
	}

	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "#SNP\tMAF\n" {
		t.Fatalf("Got %q", contents)
	}
}

func TestAbortedOutputLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genotypes.txt")

	out, err := CreateOutput(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(out, "partial")

	if err := out.Abort(); err != nil {
		t.Fatal(err)
	}
	// Close after Abort must not resurrect the file
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("Expected an empty directory, found %d entries", len(entries))
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	for _, name := range []string{"table.txt.gz", "table.txt.zst", "table.txt"} {
		path := filepath.Join(t.TempDir(), name)

		out, err := CreateOutput(context.Background(), path, nil)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(out, "ind1 0 0 AA\n")
		if err := out.Close(); err != nil {
			t.Fatal(err)
		}

		in, err := OpenInput(context.Background(), path, nil)
		if err != nil {
			t.Fatal(err)
		}
		contents, err := io.ReadAll(in)
		in.Close()
		if err != nil {
			t.Fatal(err)
		}

		if string(contents) != "ind1 0 0 AA\n" {
			t.Errorf("%s: got %q", name, contents)
		}
	}
}

func TestGoogleStoragePathsNeedClient(t *testing.T) {
	if _, err := OpenInput(context.Background(), "gs://bucket/genotypes.txt", nil); err == nil {
		t.Error("Expected an error without a storage client")
	}

	if _, _, err := splitGoogleStoragePath("gs://bucket"); err == nil {
		t.Error("Expected an error for a bucket without an object")
	}

	if !NeedsGoogleStorage("local.txt", "gs://bucket/x") || NeedsGoogleStorage("local.txt") {
		t.Error("NeedsGoogleStorage misclassified paths")
	}
}
