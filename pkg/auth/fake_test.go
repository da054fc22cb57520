package auth

import (
	"context"
	"sync"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[int64]User
	err   error
}

func newFakeRepo(users ...User) *fakeRepo {
	r := &fakeRepo{users: map[int64]User{}}
	for _, u := range users {
		r.users[u.TelegramID] = u
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, u User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.users[u.TelegramID]; ok {
		return false, nil
	}
	r.users[u.TelegramID] = u
	return true, nil
}

func (r *fakeRepo) GetByTelegramID(_ context.Context, id int64) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return User{}, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(_ context.Context, u User) (string, error) {
	return "token-for-" + string(u.Role), nil
}
