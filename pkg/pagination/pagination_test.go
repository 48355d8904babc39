package pagination

import "testing"

func TestNew_Defaults(t *testing.T) {
	p := New()
	if p.Page != 1 {
		t.Errorf("expected first page, got %d", p.Page)
	}
	if p.Size != PageSize {
		t.Errorf("expected size %d, got %d", PageSize, p.Size)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"empty", 0, 0},
		{"partial page", 7, 1},
		{"exact page", 10, 1},
		{"one over", 11, 2},
		{"several", 95, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New().TotalPages(tt.total); got != tt.want {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		page   int
		total  int
		wantLo int
		wantHi int
	}{
		{"first page", 1, 25, 0, 10},
		{"middle page", 2, 25, 10, 20},
		{"last partial page", 3, 25, 20, 25},
		{"past the end", 4, 25, 25, 25},
		{"empty set", 1, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pager{Page: tt.page, Size: PageSize}
			lo, hi := p.Bounds(tt.total)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Bounds() = [%d, %d), want [%d, %d)", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

// Concatenating all pages must reconstruct the full set in order with no
// duplicates and no omissions.
func TestBounds_PagesPartitionSet(t *testing.T) {
	const total = 37
	p := New()
	seen := 0
	for page := 1; page <= p.TotalPages(total); page++ {
		p.Page = page
		lo, hi := p.Bounds(total)
		if lo != seen {
			t.Fatalf("page %d starts at %d, want %d", page, lo, seen)
		}
		seen = hi
	}
	if seen != total {
		t.Errorf("pages covered %d records, want %d", seen, total)
	}
}

func TestHasNextHasPrevious(t *testing.T) {
	p := New()
	if p.HasPrevious() {
		t.Error("first page should have no previous")
	}
	if !p.HasNext(25) {
		t.Error("expected next page for 25 records")
	}
	p.Page = 3
	if p.HasNext(25) {
		t.Error("last page should have no next")
	}
	if !p.HasPrevious() {
		t.Error("expected previous on page 3")
	}
}

func TestNextPreviousReset(t *testing.T) {
	p := New()
	p.Next()
	p.Next()
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	p.Previous()
	if p.Page != 2 {
		t.Errorf("expected page 2, got %d", p.Page)
	}
	p.Previous()
	p.Previous()
	if p.Page != 1 {
		t.Errorf("Previous must not go below page 1, got %d", p.Page)
	}
	p.Next()
	p.Reset()
	if p.Page != 1 {
		t.Errorf("Reset must return to page 1, got %d", p.Page)
	}
}
