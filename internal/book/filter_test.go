package book

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilterEmpty(t *testing.T) {
	f := buildFilter(Filter{})
	if len(f) != 0 {
		t.Fatalf("zero filter must match all, got %v", f)
	}
}

func TestBuildFilterTitle(t *testing.T) {
	f := buildFilter(Filter{Title: "potter"})
	re, ok := f["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title filter = %T, want regex", f["title"])
	}
	if re.Pattern != "potter" {
		t.Fatalf("pattern = %q", re.Pattern)
	}
	if re.Options != "i" {
		t.Fatalf("options = %q, want case-insensitive", re.Options)
	}
}

func TestBuildFilterQuotesRegexMeta(t *testing.T) {
	f := buildFilter(Filter{Title: "c++ (2nd ed.)"})
	re := f["title"].(primitive.Regex)
	if re.Pattern == "c++ (2nd ed.)" {
		t.Fatalf("regex metacharacters must be quoted")
	}
	if re.Pattern != `c\+\+ \(2nd ed\.\)` {
		t.Fatalf("pattern = %q", re.Pattern)
	}
}

func TestBuildFilterReferences(t *testing.T) {
	a := primitive.NewObjectID()
	p := primitive.NewObjectID()
	f := buildFilter(Filter{Author: &a, Publisher: &p})
	if f["authors"] != a {
		t.Fatalf("authors filter = %v", f["authors"])
	}
	if f["publisher"] != p {
		t.Fatalf("publisher filter = %v", f["publisher"])
	}
	if _, ok := f["title"]; ok {
		t.Fatalf("empty title must not constrain")
	}
}
