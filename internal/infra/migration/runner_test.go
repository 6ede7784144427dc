package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/manzil", "pgx5://u:p@localhost:5432/manzil"},
		{"postgresql://u:p@db/manzil?sslmode=disable", "pgx5://u:p@db/manzil?sslmode=disable"},
		{"pgx5://u@db/manzil", "pgx5://u@db/manzil"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toPgx5DSN(tt.in))
		})
	}
}
