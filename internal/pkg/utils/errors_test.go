package utils

import (
	"errors"
	"testing"
)

func TestIsUniqueConstraintError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("constraint failed: UNIQUE constraint failed: phone_lines.user_id, phone_lines.phone_number (2067)"), true},
		{errors.New(`pq: duplicate key value violates unique constraint "idx_phone_lines_user_phone"`), true},
		{errors.New("database is locked"), false},
	}
	for _, tc := range cases {
		if got := IsUniqueConstraintError(tc.err); got != tc.want {
			t.Fatalf("IsUniqueConstraintError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
