package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"stayhub/internal/app/commands"
	domainauth "stayhub/internal/domain/auth"
)

// IdempotentCommand is implemented by commands that replay their first
// successful result when retried with the same key.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// ResultPrototype returns a pointer the stored payload decodes into.
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// Idempotency stores successful results under command key, caller and
// client key, so two hosts reusing a key never see each other's result.
// Failures are not stored and a corrected retry goes through. Retries that
// arrive while the first attempt is still running wait for it in this
// process; across processes the store keeps the first saved result.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	locks := &keyLocks{held: map[string]*keyLock{}}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || strings.TrimSpace(idCmd.IdempotencyKey()) == "" {
				return nextFn(ctx, cmd)
			}
			key := scopedKey(ctx, cmd.Key(), idCmd.IdempotencyKey())

			unlock, err := locks.acquire(ctx, key)
			if err != nil {
				return nil, err
			}
			defer unlock()

			replayed, found, err := replay(ctx, store, codec, key, idCmd)
			if err != nil || found {
				return replayed, err
			}
			result, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			rec := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
			if result != nil {
				if rec.Payload, err = codec.Encode(result); err != nil {
					return nil, err
				}
			}
			if err := store.Save(ctx, rec); err != nil {
				return nil, err
			}
			return result, nil
		})
	}
}

func scopedKey(ctx context.Context, command, clientKey string) string {
	caller := "anonymous"
	if p, ok := domainauth.PrincipalFromContext(ctx); ok && p.UserID != "" {
		caller = string(p.UserID)
	}
	return command + ":" + caller + ":" + strings.TrimSpace(clientKey)
}

func replay(ctx context.Context, store IdempotencyStore, codec ResultCodec, key string, cmd IdempotentCommand) (any, bool, error) {
	rec, found, err := store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, true, errMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := codec.Decode(rec.Payload, proto); err != nil {
			return nil, true, err
		}
	}
	if rv := reflect.ValueOf(proto); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, true, nil
	}
	return proto, true, nil
}

// keyLocks serializes attempts that share an idempotency key.
type keyLocks struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func (l *keyLocks) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.held[key]
	if !ok {
		lk = &keyLock{ch: make(chan struct{}, 1)}
		l.held[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lk)
		return nil, ctx.Err()
	}
	return func() {
		<-lk.ch
		l.release(key, lk)
	}, nil
}

func (l *keyLocks) release(key string, lk *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.held, key)
	}
}
