package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error {
	s.calls++
	return s.err
}

func TestReady(t *testing.T) {
	pg := &stubChecker{name: "postgres"}
	rd := &stubChecker{name: "redis"}
	require.NoError(t, NewService(pg, nil, rd).Ready(context.Background()))
	assert.Equal(t, 1, rd.calls)

	pg.err = errors.New("refused")
	err := NewService(pg, rd).Ready(context.Background())
	require.ErrorIs(t, err, pg.err)
	assert.EqualError(t, err, "postgres: refused")
	assert.Equal(t, 1, rd.calls)
}
