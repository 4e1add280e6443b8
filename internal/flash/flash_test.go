package flash

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PushPop(t *testing.T) {
	s := NewStore()
	s.Push("a", Success("Успешный вход", "Добро пожаловать!"))
	s.Push("a", Error("Ошибка", "Неверный email или пароль"))
	s.Push("b", Success("Пост скрыт", ""))

	got := s.Pop("a")
	assert.Equal(t, []Notification{
		{Kind: KindSuccess, Title: "Успешный вход", Description: "Добро пожаловать!"},
		{Kind: KindError, Title: "Ошибка", Description: "Неверный email или пароль"},
	}, got)

	// Messages are shown once
	assert.Empty(t, s.Pop("a"))

	// Other sessions are untouched
	assert.Len(t, s.Pop("b"), 1)
}

func TestStore_Sweep(t *testing.T) {
	now := time.Unix(1761475800, 0)
	s := NewStore()
	s.now = func() time.Time { return now }

	s.Push("gone", Error("Требуется авторизация", ""))
	now = now.Add(10 * time.Minute)
	s.Push("kept", Success("Пост создан", ""))
	require.Equal(t, 2, s.Len())

	assert.Equal(t, 1, s.Sweep(now.Add(-5*time.Minute)))
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Pop("gone"))
	assert.Len(t, s.Pop("kept"), 1)
	assert.Equal(t, 0, s.Len())
}
