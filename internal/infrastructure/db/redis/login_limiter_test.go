package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
)

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(redis.NewClient(&redis.Options{}), 0, 0)

	if l.maxAttempts != DefaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultMaxAttempts, l.maxAttempts)
	}
	if l.window != DefaultWindow {
		t.Fatalf("expected %s window, got %s", DefaultWindow, l.window)
	}
}

func TestNewLoginLimiter_Custom(t *testing.T) {
	l := NewLoginLimiter(redis.NewClient(&redis.Options{}), 3, time.Minute)

	if l.maxAttempts != 3 || l.window != time.Minute {
		t.Fatalf("unexpected limiter settings: %d %s", l.maxAttempts, l.window)
	}
}

func TestLoginLimiter_Key(t *testing.T) {
	l := NewLoginLimiter(redis.NewClient(&redis.Options{}), 0, 0)

	if got := l.key("alice"); got != "login:fail:alice" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestLoginLimiter_Blocked(t *testing.T) {
	const key = "login:fail:u1"
	cases := []struct {
		name  string
		setup func(m redismock.ClientMock)
		want  bool
	}{
		{"no failures", func(m redismock.ClientMock) { m.ExpectGet(key).RedisNil() }, false},
		{"below limit", func(m redismock.ClientMock) { m.ExpectGet(key).SetVal("2") }, false},
		{"at limit", func(m redismock.ClientMock) { m.ExpectGet(key).SetVal("3") }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tc.setup(mock)

			got, err := NewLoginLimiter(db, 3, time.Minute).Blocked(context.Background(), "u1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected blocked=%v, got %v", tc.want, got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestLoginLimiter_BlockedError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("login:fail:u1").SetErr(errors.New("connection refused"))

	_, err := NewLoginLimiter(db, 3, time.Minute).Blocked(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error")
	}
}

// EXPIRE NX is sent with every INCR, not only the first.
func TestLoginLimiter_RecordFailureAlwaysSetsTTL(t *testing.T) {
	const key = "login:fail:u1"
	db, mock := redismock.NewClientMock()
	l := NewLoginLimiter(db, 3, time.Minute)

	for i := int64(1); i <= 2; i++ {
		mock.ExpectTxPipeline()
		mock.ExpectIncr(key).SetVal(i)
		mock.ExpectExpireNX(key, time.Minute).SetVal(i == 1)
		mock.ExpectTxPipelineExec()
	}

	for i := 0; i < 2; i++ {
		if err := l.RecordFailure(context.Background(), "u1"); err != nil {
			t.Fatalf("record failure #%d: %v", i+1, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLoginLimiter_Reset(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectDel("login:fail:u1").SetVal(1)

	if err := NewLoginLimiter(db, 3, time.Minute).Reset(context.Background(), "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
