package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

func TestReaderStorage_StaleResultDropped(t *testing.T) {
	t.Parallel()

	s := NewReaderStorage()

	first := s.Begin(1, 10, 2)
	second := s.Begin(1, 10, 1)
	require.NotEqual(t, first, second)

	_, applied := s.Complete(1, first, []entities.Verse{{SurahNumber: 2, NumberInSurah: 1}}, false, 0)
	assert.False(t, applied)

	session, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, entities.ReaderLoading, session.State)
	assert.Equal(t, 1, session.SurahNumber)

	verses := make([]entities.Verse, 7)
	session, applied = s.Complete(1, second, verses, true, 0)
	require.True(t, applied)
	assert.Equal(t, entities.ReaderReady, session.State)
	assert.True(t, session.Fallback)
	assert.Len(t, session.Verses, 7)
}

func TestReaderStorage_ChatsAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewReaderStorage()
	a := s.Begin(1, 10, 1)
	b := s.Begin(2, 20, 2)

	_, applied := s.Complete(1, a, nil, false, 0)
	assert.True(t, applied)
	_, applied = s.Complete(2, b, nil, false, 0)
	assert.True(t, applied)
}

func TestReaderStorage_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	s := NewReaderStorage()
	_, ok := s.Update(1, func(*entities.ReaderSession) {})
	assert.False(t, ok)

	gen := s.Begin(1, 10, 1)
	s.Complete(1, gen, make([]entities.Verse, 7), false, 0)

	session, ok := s.Update(1, func(rs *entities.ReaderSession) { rs.Page = 1 })
	require.True(t, ok)
	assert.Equal(t, 1, session.Page)

	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}
