package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// fakeClient is a map-backed Client. Pipelined writes land only on Exec.
type fakeClient struct {
	data    map[string]string
	err     error // returned by every command when set
	execErr error // returned by pipeline Exec when set
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	if f.err != nil {
		return redis.NewSliceResult(nil, f.err)
	}
	vals := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.data[k]; ok {
			vals[i] = v
		}
	}
	return redis.NewSliceResult(vals, nil)
}

func (f *fakeClient) TxPipeline() redis.Pipeliner {
	return &fakePipeline{client: f, staged: make(map[string]string)}
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

type fakePipeline struct {
	redis.Pipeliner
	client *fakeClient
	staged map[string]string
}

func (p *fakePipeline) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	p.staged[key] = fmt.Sprint(value)
	return redis.NewStatusResult("QUEUED", nil)
}

func (p *fakePipeline) Exec(context.Context) ([]redis.Cmder, error) {
	if p.client.execErr != nil {
		return nil, p.client.execErr
	}
	for k, v := range p.staged {
		p.client.data[k] = v
	}
	return nil, nil
}

func TestCredentialStore_Keys(t *testing.T) {
	s := NewCredentialStore(nil, "")
	if got := s.tokenKey("browser-1"); got != "session:browser-1:token" {
		t.Fatalf("unexpected token key: %s", got)
	}
	if got := s.usernameKey("browser-1"); got != "session:browser-1:username" {
		t.Fatalf("unexpected username key: %s", got)
	}

	s = NewCredentialStore(nil, "snooze")
	if got := s.tokenKey("x"); got != "snooze:x:token" {
		t.Fatalf("unexpected prefixed key: %s", got)
	}
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	client := newFakeClient()
	s := NewCredentialStore(client, "")
	ctx := context.Background()
	want := domain.Credentials{Token: "tok", Username: "alice"}

	if err := s.Save(ctx, "tab-1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if client.data["session:tab-1:token"] != "tok" || client.data["session:tab-1:username"] != "alice" {
		t.Fatalf("unexpected keys written: %v", client.data)
	}

	got, err := s.Load(ctx, "tab-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	if err := s.Clear(ctx, "tab-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(client.data) != 0 {
		t.Fatalf("expected both keys deleted, got %v", client.data)
	}
	if _, err := s.Load(ctx, "tab-1"); !errors.Is(err, domain.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
}

func TestCredentialStore_LoadIncomplete(t *testing.T) {
	ctx := context.Background()
	for name, data := range map[string]map[string]string{
		"nothing":       {},
		"token only":    {"session:tab-1:token": "tok"},
		"username only": {"session:tab-1:username": "alice"},
	} {
		t.Run(name, func(t *testing.T) {
			client := newFakeClient()
			client.data = data
			s := NewCredentialStore(client, "")

			if _, err := s.Load(ctx, "tab-1"); !errors.Is(err, domain.ErrNoCredentials) {
				t.Fatalf("expected ErrNoCredentials, got %v", err)
			}
		})
	}
}

func TestCredentialStore_Errors(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")

	client := newFakeClient()
	client.err = down
	s := NewCredentialStore(client, "")

	_, err := s.Load(ctx, "tab-1")
	if !errors.Is(err, down) || errors.Is(err, domain.ErrNoCredentials) {
		t.Fatalf("Load: expected wrapped connection error, got %v", err)
	}
	if err := s.Clear(ctx, "tab-1"); !errors.Is(err, down) {
		t.Fatalf("Clear: expected wrapped connection error, got %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, down) {
		t.Fatalf("Ping: expected connection error, got %v", err)
	}

	client = newFakeClient()
	client.execErr = down
	s = NewCredentialStore(client, "")
	if err := s.Save(ctx, "tab-1", domain.Credentials{Token: "tok", Username: "alice"}); !errors.Is(err, down) {
		t.Fatalf("Save: expected wrapped exec error, got %v", err)
	}
	if len(client.data) != 0 {
		t.Fatalf("failed transaction wrote keys: %v", client.data)
	}
}
