package db

import "testing"

func TestIsPostgres(t *testing.T) {
	cases := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost:5432/blog", true},
		{"postgresql://u@host/db", true},
		{"host=localhost user=blog dbname=blog", true},
		{"file:rezeptblog.db", false},
		{"file:test?mode=memory&cache=shared", false},
		{"rezeptblog.db", false},
	}
	for _, tc := range cases {
		if got := IsPostgres(tc.dsn); got != tc.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tc.dsn, got, tc.want)
		}
	}
}

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  postgres://u:p@h/db ", "postgres://u:p@h/db"},
		{`"host=h user=u dbname=d"`, "host=h user=u dbname=d sslmode=disable"},
		{"host=h  user=u   dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"file:blog.db", "file:blog.db"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDSN(tc.in); got != tc.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
