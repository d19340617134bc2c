package postgresql

import "testing"

func TestWithUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "keyword form", dsn: "host=db user=app dbname=licenses", want: "host=db user=app dbname=licenses TimeZone=UTC"},
		{name: "url form", dsn: "postgres://app@db/licenses", want: "postgres://app@db/licenses?TimeZone=UTC"},
		{name: "url with query", dsn: "postgresql://app@db/licenses?sslmode=disable", want: "postgresql://app@db/licenses?sslmode=disable&TimeZone=UTC"},
		{name: "zone already set", dsn: "host=db TimeZone=Asia/Karachi", want: "host=db TimeZone=Asia/Karachi"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := withUTC(tt.dsn); got != tt.want {
				t.Fatalf("withUTC(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestDialectorRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := Dialector("  "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
