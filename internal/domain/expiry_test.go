package domain

import (
	"errors"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	ref := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		want   Classification
	}{
		{name: "yesterday", target: ref.AddDate(0, 0, -1), want: ClassificationExpired},
		{name: "long ago", target: ref.AddDate(-1, 0, 0), want: ClassificationExpired},
		{name: "same day", target: ref, want: ClassificationExpiringSoon},
		{name: "same day earlier clock", target: time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC), want: ClassificationExpiringSoon},
		{name: "plus one day", target: ref.AddDate(0, 0, 1), want: ClassificationExpiringSoon},
		{name: "plus seven days", target: ref.AddDate(0, 0, 7), want: ClassificationExpiringSoon},
		{name: "plus seven days late clock", target: time.Date(2026, time.October, 21, 23, 59, 0, 0, time.UTC), want: ClassificationExpiringSoon},
		{name: "plus eight days", target: ref.AddDate(0, 0, 8), want: ClassificationActive},
		{name: "next year", target: ref.AddDate(1, 0, 0), want: ClassificationActive},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(ref, tt.target); got != tt.want {
				t.Fatalf("Classify(%s, %s) = %s, want %s", ref.Format(time.DateOnly), tt.target.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for offset := -30; offset <= 30; offset++ {
		target := ref.AddDate(0, 0, offset)
		first := Classify(ref, target)
		for i := 0; i < 3; i++ {
			if got := Classify(ref, target); got != first {
				t.Fatalf("offset %d: Classify() = %s, previously %s", offset, got, first)
			}
		}

		var want Classification
		switch {
		case offset < 0:
			want = ClassificationExpired
		case offset <= ExpiringSoonWindow:
			want = ClassificationExpiringSoon
		default:
			want = ClassificationActive
		}
		if first != want {
			t.Fatalf("offset %d: Classify() = %s, want %s", offset, first, want)
		}
	}
}

func TestClassifyUsesReferenceLocationDay(t *testing.T) {
	t.Parallel()

	karachi := time.FixedZone("PKT", 5*60*60)
	// 21:00 UTC on Oct 13 is already Oct 14 in Karachi.
	ref := time.Date(2026, time.October, 13, 21, 0, 0, 0, time.UTC).In(karachi)
	target := time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC)

	if got := Classify(ref, target); got != ClassificationExpired {
		t.Fatalf("Classify() = %s, want %s", got, ClassificationExpired)
	}
}

func TestParseClassificationFromString(t *testing.T) {
	t.Parallel()

	got, err := ParseClassificationFromString(" EXPIRING_SOON ")
	if err != nil {
		t.Fatalf("ParseClassificationFromString() unexpected error = %v", err)
	}
	if got != ClassificationExpiringSoon {
		t.Fatalf("ParseClassificationFromString() = %s, want %s", got, ClassificationExpiringSoon)
	}

	_, err = ParseClassificationFromString("overdue")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseClassificationFromString() error = %v, want ErrValidation", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	ref := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	at := func(offset int) *time.Time {
		d := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &d
	}

	licenses := []License{
		{ID: 1, IsActive: true, ExpiryDate: at(-3)},
		{ID: 2, IsActive: true, ExpiryDate: at(0)},
		{ID: 3, IsActive: false, ExpiryDate: at(7)},
		{ID: 4, IsActive: true, ExpiryDate: at(40)},
		{ID: 5, IsActive: false},
	}
	contracts := []MaintenanceContract{
		{ID: 1, EndDate: at(-1)},
		{ID: 2, EndDate: at(-200)},
		{ID: 3, EndDate: at(2)},
		{ID: 4, EndDate: at(9)},
		{ID: 5},
	}

	got := Summarize(ref, licenses, contracts)
	want := Summary{
		TotalLicenses:         5,
		ActiveLicenses:        3,
		ExpiredLicenses:       1,
		ExpiringSoonLicenses:  2,
		TotalContracts:        5,
		ExpiringSoonContracts: 1,
		ExpiredContracts:      2,
	}
	if got != want {
		t.Fatalf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	if got := Summarize(time.Now(), nil, nil); got != (Summary{}) {
		t.Fatalf("Summarize() = %+v, want zero summary", got)
	}
}
